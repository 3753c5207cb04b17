package store

import (
	"context"
	"errors"
	"fmt"

	"basegraph.app/assign/core/db"
	"basegraph.app/assign/internal/model"
	"github.com/jackc/pgx/v5"
)

const workspaceColumns = "id, user_id, name, is_home, created_at, updated_at"

type workspaceStore struct {
	conn db.DBTX
}

func newWorkspaceStore(conn db.DBTX) WorkspaceStore {
	return &workspaceStore{conn: conn}
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	row := s.conn.QueryRow(ctx, "SELECT "+workspaceColumns+" FROM workspaces WHERE id = $1", id)
	ws, err := scanWorkspace(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ws, nil
}

func (s *workspaceStore) ListByUser(ctx context.Context, userID int64) ([]model.Workspace, error) {
	rows, err := s.conn.Query(ctx,
		"SELECT "+workspaceColumns+" FROM workspaces WHERE user_id = $1 ORDER BY is_home DESC, created_at ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	return collectWorkspaces(rows)
}

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	if err := row.Scan(&ws.ID, &ws.UserID, &ws.Name, &ws.IsHome, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return nil, err
	}
	return &ws, nil
}

func collectWorkspaces(rows pgx.Rows) ([]model.Workspace, error) {
	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Workspace, error) {
		ws, err := scanWorkspace(row)
		if err != nil {
			return model.Workspace{}, err
		}
		return *ws, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning workspaces: %w", err)
	}
	return result, nil
}
