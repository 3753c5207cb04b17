// Package cache holds the per-workspace item lists the rest of the application
// reads from. Lists are filled from the store on first read and updated in
// place after edits.
package cache

import (
	"context"

	"basegraph.app/assign/internal/model"
)

// Mutation transforms a cached list. It receives a copy it may modify.
type Mutation func(items []model.Item) []model.Item

type ItemLists interface {
	// Get returns the cached list and whether it was present.
	Get(ctx context.Context, workspaceID int64, ct model.ContentType) ([]model.Item, bool, error)
	Set(ctx context.Context, workspaceID int64, ct model.ContentType, items []model.Item) error
	// Mutate applies fn to the cached list. Lists that are not cached are left
	// alone; the next read loads them fresh.
	Mutate(ctx context.Context, workspaceID int64, ct model.ContentType, fn Mutation) error
	// Invalidate drops a cached list so the next read reloads it.
	Invalidate(ctx context.Context, workspaceID int64, ct model.ContentType) error
}

// ReplaceItem swaps the entry with updated.ID for updated.
func ReplaceItem(updated model.Item) Mutation {
	return func(items []model.Item) []model.Item {
		for i := range items {
			if items[i].ID == updated.ID {
				items[i] = updated
			}
		}
		return items
	}
}

// RemoveItem drops the entry with the given ID.
func RemoveItem(itemID int64) Mutation {
	return func(items []model.Item) []model.Item {
		out := items[:0]
		for _, item := range items {
			if item.ID != itemID {
				out = append(out, item)
			}
		}
		return out
	}
}
