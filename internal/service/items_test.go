package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/assign/internal/cache"
	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/service"
	"basegraph.app/assign/internal/store"
)

var _ = Describe("ItemService", func() {
	var (
		ctx   context.Context
		svc   service.ItemService
		tools *mockItemStore
		lists cache.ItemLists
	)

	BeforeEach(func() {
		ctx = context.Background()
		tools = &mockItemStore{
			listByWorkspaceFn: func(_ context.Context, workspaceID int64) ([]model.Item, error) {
				return []model.Item{{ID: 1, UserID: 7, ContentType: model.ContentTypeTools, Name: "Search"}}, nil
			},
		}
		lists = cache.NewMemoryLists()
		svc = service.NewItemService(&mockStoreProvider{
			workspaces: &mockWorkspaceStore{
				getByIDFn: func(_ context.Context, id int64) (*model.Workspace, error) {
					if id != 1 {
						return nil, store.ErrNotFound
					}
					w := ws(1, "Home")
					return &w, nil
				},
			},
			items: map[model.ContentType]*mockItemStore{model.ContentTypeTools: tools},
		}, lists)
	})

	It("loads from the store once and then serves the cached list", func() {
		first, err := svc.ListByWorkspace(ctx, 7, 1, model.ContentTypeTools)
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(HaveLen(1))

		second, err := svc.ListByWorkspace(ctx, 7, 1, model.ContentTypeTools)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
		Expect(tools.listCalls).To(Equal(1))
	})

	It("hides workspaces of other users", func() {
		_, err := svc.ListByWorkspace(ctx, 8, 1, model.ContentTypeTools)
		Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
	})

	It("reports unknown workspaces", func() {
		_, err := svc.ListByWorkspace(ctx, 7, 2, model.ContentTypeTools)
		Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
	})
})
