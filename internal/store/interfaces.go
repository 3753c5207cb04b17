package store

import (
	"context"
	"errors"

	"basegraph.app/assign/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Workspace, error)
}

// ItemStore defines the contract for one content type's items
type ItemStore interface {
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	Update(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Item, error)
}

// AssociationStore defines the contract for item-workspace links of one content type
type AssociationStore interface {
	ListWorkspaces(ctx context.Context, itemID int64) ([]model.Workspace, error)
	DeleteAssociation(ctx context.Context, itemID, workspaceID int64) (bool, error)
	CreateAssociations(ctx context.Context, records []model.AssociationRecord) error
}
