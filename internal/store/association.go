package store

import (
	"context"
	"fmt"

	"basegraph.app/assign/core/db"
	"basegraph.app/assign/internal/model"
	"github.com/jackc/pgx/v5"
)

type associationStore struct {
	conn db.DBTX
	tx   TxBeginner
	ct   model.ContentType
}

func newAssociationStore(conn db.DBTX, tx TxBeginner, ct model.ContentType) AssociationStore {
	return &associationStore{conn: conn, tx: tx, ct: ct}
}

func (s *associationStore) ListWorkspaces(ctx context.Context, itemID int64) ([]model.Workspace, error) {
	query := fmt.Sprintf(`SELECT w.id, w.user_id, w.name, w.is_home, w.created_at, w.updated_at
		FROM workspaces w
		JOIN %s l ON l.workspace_id = w.id
		WHERE l.%s = $1
		ORDER BY l.created_at ASC`, s.ct.AssociationTable(), s.ct.ForeignKey())

	rows, err := s.conn.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing %s workspaces: %w", s.ct.Singular(), err)
	}
	return collectWorkspaces(rows)
}

func (s *associationStore) DeleteAssociation(ctx context.Context, itemID, workspaceID int64) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND workspace_id = $2", s.ct.AssociationTable(), s.ct.ForeignKey())

	tag, err := s.conn.Exec(ctx, query, itemID, workspaceID)
	if err != nil {
		return false, fmt.Errorf("deleting %s workspace: %w", s.ct.Singular(), err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateAssociations inserts all records in one transaction. Records whose
// foreign key does not match this store's content type are rejected.
func (s *associationStore) CreateAssociations(ctx context.Context, records []model.AssociationRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, r := range records {
		if r.ForeignKey != "" && r.ForeignKey != s.ct.ForeignKey() {
			return fmt.Errorf("association record keyed by %s sent to %s", r.ForeignKey, s.ct.AssociationTable())
		}
	}

	query := fmt.Sprintf(`INSERT INTO %s (user_id, %s, workspace_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, workspace_id) DO NOTHING`,
		s.ct.AssociationTable(), s.ct.ForeignKey(), s.ct.ForeignKey())

	return s.tx.WithTx(ctx, func(q db.DBTX) error {
		batch := &pgx.Batch{}
		for _, r := range records {
			batch.Queue(query, r.UserID, r.ItemID, r.WorkspaceID)
		}

		results := q.SendBatch(ctx, batch)
		for range records {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("creating %s workspaces: %w", s.ct.Singular(), err)
			}
		}
		return results.Close()
	})
}
