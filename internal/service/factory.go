package service

import (
	"context"

	"basegraph.app/assign/internal/cache"
	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/notify"
)

type Services struct {
	stores StoreProvider
	lists  cache.ItemLists
	editor EditorService
}

func NewServices(stores StoreProvider, lists cache.ItemLists, notifier notify.Notifier) *Services {
	return &Services{
		stores: stores,
		lists:  lists,
		editor: NewEditorService(EditorServiceConfig{
			Stores:   stores,
			Lists:    lists,
			Notifier: notifier,
			Aux:      DefaultAuxLoaders(stores),
		}),
	}
}

// Editor returns the shared editor. Open sessions live inside it, so every
// caller must get the same instance.
func (s *Services) Editor() EditorService {
	return s.editor
}

func (s *Services) Items() ItemService {
	return NewItemService(s.stores, s.lists)
}

// DefaultAuxLoaders gives chat edit forms the list of models the user can pick from.
func DefaultAuxLoaders(stores StoreProvider) AuxLoaders {
	return AuxLoaders{
		model.ContentTypeChats: AuxLoaderFunc(func(ctx context.Context, item model.Item) (map[string]any, error) {
			if item.WorkspaceID == nil {
				return nil, nil
			}
			models, err := stores.Items(model.ContentTypeModels)
			if err != nil {
				return nil, err
			}
			available, err := models.ListByWorkspace(ctx, *item.WorkspaceID)
			if err != nil {
				return nil, err
			}
			options := make([]map[string]any, 0, len(available))
			for _, m := range available {
				options = append(options, map[string]any{"id": m.ID, "name": m.Name})
			}
			return map[string]any{"models": options}, nil
		}),
	}
}
