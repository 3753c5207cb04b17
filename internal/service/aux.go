package service

import (
	"context"

	"basegraph.app/assign/internal/model"
)

// AuxLoader fetches extra data an edit form needs beyond the item itself.
// The result is handed back to the client as the session's form state.
type AuxLoader interface {
	Load(ctx context.Context, item model.Item) (map[string]any, error)
}

type AuxLoaderFunc func(ctx context.Context, item model.Item) (map[string]any, error)

func (f AuxLoaderFunc) Load(ctx context.Context, item model.Item) (map[string]any, error) {
	return f(ctx, item)
}

// AuxLoaders maps content types to loaders. Types without an entry load nothing.
type AuxLoaders map[model.ContentType]AuxLoader
