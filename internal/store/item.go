package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"basegraph.app/assign/core/db"
	"basegraph.app/assign/internal/model"
	"github.com/jackc/pgx/v5"
)

// itemStore serves every content type; table and column names come from the
// validated ContentType, never from user input.
type itemStore struct {
	conn db.DBTX
	ct   model.ContentType
}

func newItemStore(conn db.DBTX, ct model.ContentType) ItemStore {
	return &itemStore{conn: conn, ct: ct}
}

func (s *itemStore) columns(alias string) string {
	workspaceCol := "NULL::bigint"
	if s.ct == model.ContentTypeChats {
		workspaceCol = alias + "workspace_id"
	}
	return fmt.Sprintf("%[1]sid, %[1]suser_id, %[2]s, %[1]sname, %[1]sdescription, %[1]sdata, %[1]screated_at, %[1]supdated_at",
		alias, workspaceCol)
}

func (s *itemStore) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.columns(""), s.ct)
	item, err := s.scan(s.conn.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemStore) Update(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error) {
	data := []byte("{}")
	if len(patch.Data) > 0 {
		encoded, err := json.Marshal(patch.Data)
		if err != nil {
			return nil, fmt.Errorf("encoding %s data: %w", s.ct.Singular(), err)
		}
		data = encoded
	}

	query := fmt.Sprintf(`UPDATE %s
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    data = data || $4::jsonb,
		    updated_at = now()
		WHERE id = $1
		RETURNING %s`, s.ct, s.columns(""))

	item, err := s.scan(s.conn.QueryRow(ctx, query, id, patch.Name, patch.Description, string(data)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating %s: %w", s.ct.Singular(), err)
	}
	return item, nil
}

func (s *itemStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Item, error) {
	var query string
	if s.ct.HasWorkspaces() {
		query = fmt.Sprintf(`SELECT %s FROM %s i
			JOIN %s l ON l.%s = i.id
			WHERE l.workspace_id = $1
			ORDER BY i.updated_at DESC`,
			s.columns("i."), s.ct, s.ct.AssociationTable(), s.ct.ForeignKey())
	} else {
		query = fmt.Sprintf("SELECT %s FROM %s WHERE workspace_id = $1 ORDER BY updated_at DESC", s.columns(""), s.ct)
	}

	rows, err := s.conn.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.ct, err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Item, error) {
		item, err := s.scan(row)
		if err != nil {
			return model.Item{}, err
		}
		return *item, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.ct, err)
	}
	return items, nil
}

func (s *itemStore) scan(row pgx.Row) (*model.Item, error) {
	item := model.Item{ContentType: s.ct}
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.WorkspaceID,
		&item.Name,
		&item.Description,
		&item.Data,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
