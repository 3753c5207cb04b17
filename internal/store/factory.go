package store

import (
	"context"
	"fmt"

	"basegraph.app/assign/core/db"
	"basegraph.app/assign/internal/model"
)

// TxBeginner runs a function inside a transaction. *db.DB satisfies it.
type TxBeginner interface {
	WithTx(ctx context.Context, fn func(q db.DBTX) error) error
}

type Stores struct {
	conn db.DBTX
	tx   TxBeginner
}

func NewStores(conn db.DBTX, tx TxBeginner) *Stores {
	return &Stores{conn: conn, tx: tx}
}

func (s *Stores) Workspaces() WorkspaceStore {
	return newWorkspaceStore(s.conn)
}

func (s *Stores) Items(ct model.ContentType) (ItemStore, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownContentType, ct)
	}
	return newItemStore(s.conn, ct), nil
}

// Associations returns the link store for ct. Chats have none and report false.
func (s *Stores) Associations(ct model.ContentType) (AssociationStore, bool) {
	if !ct.HasWorkspaces() {
		return nil, false
	}
	return newAssociationStore(s.conn, s.tx, ct), true
}
