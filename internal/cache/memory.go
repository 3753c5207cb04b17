package cache

import (
	"context"
	"sync"

	"basegraph.app/assign/internal/model"
)

type listKey struct {
	workspaceID int64
	ct          model.ContentType
}

type memoryLists struct {
	mu    sync.RWMutex
	lists map[listKey][]model.Item
}

func NewMemoryLists() ItemLists {
	return &memoryLists{lists: make(map[listKey][]model.Item)}
}

func (m *memoryLists) Get(_ context.Context, workspaceID int64, ct model.ContentType) ([]model.Item, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items, ok := m.lists[listKey{workspaceID, ct}]
	if !ok {
		return nil, false, nil
	}
	return append([]model.Item(nil), items...), true, nil
}

func (m *memoryLists) Set(_ context.Context, workspaceID int64, ct model.ContentType, items []model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lists[listKey{workspaceID, ct}] = append([]model.Item(nil), items...)
	return nil
}

func (m *memoryLists) Mutate(_ context.Context, workspaceID int64, ct model.ContentType, fn Mutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := listKey{workspaceID, ct}
	items, ok := m.lists[key]
	if !ok {
		return nil
	}
	m.lists[key] = fn(append([]model.Item(nil), items...))
	return nil
}

func (m *memoryLists) Invalidate(_ context.Context, workspaceID int64, ct model.ContentType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.lists, listKey{workspaceID, ct})
	return nil
}
