// Package assign reconciles the workspaces an item is linked to.
package assign

import (
	"context"
	"fmt"
	"log/slog"

	"basegraph.app/assign/common/logger"
	"basegraph.app/assign/internal/model"
)

// Linker is the per-content-type association service.
type Linker interface {
	DeleteAssociation(ctx context.Context, itemID, workspaceID int64) (bool, error)
	CreateAssociations(ctx context.Context, records []model.AssociationRecord) error
}

type Params struct {
	Starting []model.Workspace
	Selected []model.Workspace
	ItemID   int64
	// ActiveWorkspaceID is the workspace the user is working in. Reconcile
	// does nothing when it is nil.
	ActiveWorkspaceID *int64
	Linker            Linker
	ForeignKey        string
}

type Result struct {
	Skipped bool
	Deleted []int64
	Created []model.AssociationRecord
	// RemovedFromActive is set when the active workspace lost its link, so the
	// caller must drop the item from that workspace's cached list.
	RemovedFromActive bool
}

// Diff returns the workspaces present only in starting and only in selected,
// compared by ID, preserving input order.
func Diff(starting, selected []model.Workspace) (toDelete, toCreate []model.Workspace) {
	for _, ws := range starting {
		if !model.ContainsWorkspace(selected, ws.ID) {
			toDelete = append(toDelete, ws)
		}
	}
	for _, ws := range selected {
		if !model.ContainsWorkspace(starting, ws.ID) {
			toCreate = append(toCreate, ws)
		}
	}
	return toDelete, toCreate
}

// Reconcile moves the item's links from Starting to Selected. Deletes run one
// by one in order and the creates go out as a single batch afterwards. The
// batch is sent whenever the sets differ, even when it is empty; equal sets
// make no calls at all. The first failure stops the sequence; links already
// deleted stay deleted.
func Reconcile(ctx context.Context, p Params) (Result, error) {
	if p.ActiveWorkspaceID == nil {
		slog.DebugContext(ctx, "no active workspace, skipping association reconcile", "item_id", p.ItemID)
		return Result{Skipped: true}, nil
	}

	sc := logger.StartSpan(ctx, "assign.reconcile")
	defer sc.End()
	ctx = sc.Context()

	toDelete, toCreate := Diff(p.Starting, p.Selected)
	if len(toDelete) == 0 && len(toCreate) == 0 {
		return Result{}, nil
	}

	var result Result
	for _, ws := range toDelete {
		if _, err := p.Linker.DeleteAssociation(ctx, p.ItemID, ws.ID); err != nil {
			sc.RecordError(err)
			return result, fmt.Errorf("deleting workspace %d association: %w", ws.ID, err)
		}
		result.Deleted = append(result.Deleted, ws.ID)
		if ws.ID == *p.ActiveWorkspaceID {
			result.RemovedFromActive = true
		}
	}

	records := make([]model.AssociationRecord, len(toCreate))
	for i, ws := range toCreate {
		records[i] = model.AssociationRecord{
			UserID:      ws.UserID,
			ItemID:      p.ItemID,
			WorkspaceID: ws.ID,
			ForeignKey:  p.ForeignKey,
		}
	}
	if err := p.Linker.CreateAssociations(ctx, records); err != nil {
		sc.RecordError(err)
		return result, fmt.Errorf("creating workspace associations: %w", err)
	}
	result.Created = records

	slog.InfoContext(ctx, "workspace associations reconciled",
		"item_id", p.ItemID,
		"deleted", len(result.Deleted),
		"created", len(result.Created),
		"removed_from_active", result.RemovedFromActive)

	return result, nil
}
