package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"basegraph.app/assign/internal/cache"
	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/store"
)

type ItemService interface {
	// ListByWorkspace returns the workspace's items of one content type,
	// served from the list cache when it holds them.
	ListByWorkspace(ctx context.Context, userID, workspaceID int64, ct model.ContentType) ([]model.Item, error)
}

type itemService struct {
	stores StoreProvider
	lists  cache.ItemLists
}

func NewItemService(stores StoreProvider, lists cache.ItemLists) ItemService {
	return &itemService{stores: stores, lists: lists}
}

func (s *itemService) ListByWorkspace(ctx context.Context, userID, workspaceID int64, ct model.ContentType) ([]model.Item, error) {
	ws, err := s.stores.Workspaces().GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("fetching workspace: %w", err)
	}
	if ws.UserID != userID {
		return nil, ErrWorkspaceNotFound
	}

	if s.lists != nil {
		cached, ok, err := s.lists.Get(ctx, workspaceID, ct)
		if err != nil {
			slog.WarnContext(ctx, "failed to read cached list", "error", err, "workspace_id", workspaceID)
		} else if ok {
			return cached, nil
		}
	}

	items, err := s.stores.Items(ct)
	if err != nil {
		return nil, err
	}
	list, err := items.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", ct, err)
	}

	if s.lists != nil {
		if err := s.lists.Set(ctx, workspaceID, ct, list); err != nil {
			slog.WarnContext(ctx, "failed to cache list", "error", err, "workspace_id", workspaceID)
		}
	}
	return list, nil
}
