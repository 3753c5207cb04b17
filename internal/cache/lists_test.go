package cache_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/assign/internal/cache"
	"basegraph.app/assign/internal/model"
)

var _ = Describe("Mutations", func() {
	items := func() []model.Item {
		return []model.Item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
	}

	It("replaces the matching item", func() {
		out := cache.ReplaceItem(model.Item{ID: 2, Name: "b2"})(items())
		Expect(out).To(HaveLen(3))
		Expect(out[1].Name).To(Equal("b2"))
		Expect(out[0].Name).To(Equal("a"))
	})

	It("leaves the list alone when the item is absent", func() {
		out := cache.ReplaceItem(model.Item{ID: 9, Name: "z"})(items())
		Expect(out).To(Equal(items()))
	})

	It("removes the matching item", func() {
		out := cache.RemoveItem(2)(items())
		Expect(out).To(HaveLen(2))
		Expect(out[0].ID).To(Equal(int64(1)))
		Expect(out[1].ID).To(Equal(int64(3)))
	})
})

var _ = Describe("MemoryLists", func() {
	var (
		ctx   context.Context
		lists cache.ItemLists
	)

	BeforeEach(func() {
		ctx = context.Background()
		lists = cache.NewMemoryLists()
	})

	It("reports a miss for lists that were never set", func() {
		_, ok, err := lists.Get(ctx, 1, model.ContentTypePrompts)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("keys lists by workspace and content type", func() {
		Expect(lists.Set(ctx, 1, model.ContentTypePrompts, []model.Item{{ID: 10}})).To(Succeed())
		Expect(lists.Set(ctx, 1, model.ContentTypeFiles, []model.Item{{ID: 20}})).To(Succeed())

		prompts, ok, err := lists.Get(ctx, 1, model.ContentTypePrompts)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(prompts).To(Equal([]model.Item{{ID: 10}}))

		_, ok, _ = lists.Get(ctx, 2, model.ContentTypePrompts)
		Expect(ok).To(BeFalse())
	})

	It("mutates cached lists", func() {
		Expect(lists.Set(ctx, 1, model.ContentTypeTools, []model.Item{{ID: 1}, {ID: 2}})).To(Succeed())
		Expect(lists.Mutate(ctx, 1, model.ContentTypeTools, cache.RemoveItem(1))).To(Succeed())

		tools, _, _ := lists.Get(ctx, 1, model.ContentTypeTools)
		Expect(tools).To(Equal([]model.Item{{ID: 2}}))
	})

	It("does not create lists on mutate", func() {
		Expect(lists.Mutate(ctx, 7, model.ContentTypeModels, cache.ReplaceItem(model.Item{ID: 1}))).To(Succeed())
		_, ok, _ := lists.Get(ctx, 7, model.ContentTypeModels)
		Expect(ok).To(BeFalse())
	})

	It("returns copies so callers cannot modify the cache", func() {
		Expect(lists.Set(ctx, 1, model.ContentTypeChats, []model.Item{{ID: 1, Name: "x"}})).To(Succeed())
		got, _, _ := lists.Get(ctx, 1, model.ContentTypeChats)
		got[0].Name = "changed"

		again, _, _ := lists.Get(ctx, 1, model.ContentTypeChats)
		Expect(again[0].Name).To(Equal("x"))
	})

	It("drops invalidated lists", func() {
		Expect(lists.Set(ctx, 3, model.ContentTypeFiles, []model.Item{{ID: 1}})).To(Succeed())
		Expect(lists.Invalidate(ctx, 3, model.ContentTypeFiles)).To(Succeed())

		_, ok, err := lists.Get(ctx, 3, model.ContentTypeFiles)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
