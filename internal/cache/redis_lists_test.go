package cache_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"basegraph.app/assign/internal/cache"
	"basegraph.app/assign/internal/model"
)

var _ = Describe("RedisLists", func() {
	var (
		ctx    context.Context
		server *miniredis.Miniredis
		client *redis.Client
		other  *redis.Client
		lists  cache.ItemLists
		items  []model.Item
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = miniredis.RunT(GinkgoT())
		client = redis.NewClient(&redis.Options{Addr: server.Addr()})
		other = redis.NewClient(&redis.Options{Addr: server.Addr()})
		DeferCleanup(client.Close)
		DeferCleanup(other.Close)

		lists = cache.NewRedisLists(client, "assign", time.Minute)
		items = []model.Item{
			{ID: 1, ContentType: model.ContentTypePrompts, Name: "One"},
			{ID: 2, ContentType: model.ContentTypePrompts, Name: "Two"},
		}
	})

	It("stores lists with a ttl", func() {
		Expect(lists.Set(ctx, 7, model.ContentTypePrompts, items)).To(Succeed())

		got, ok, err := lists.Get(ctx, 7, model.ContentTypePrompts)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(got).To(HaveLen(2))
		Expect(server.TTL("assign:items:7:prompts")).To(Equal(time.Minute))
	})

	It("leaves uncached lists alone on mutate", func() {
		Expect(lists.Mutate(ctx, 7, model.ContentTypePrompts, cache.RemoveItem(1))).To(Succeed())

		Expect(server.Exists("assign:items:7:prompts")).To(BeFalse())
	})

	It("retries when the list changes between read and write", func() {
		Expect(lists.Set(ctx, 7, model.ContentTypePrompts, items)).To(Succeed())

		calls := 0
		err := lists.Mutate(ctx, 7, model.ContentTypePrompts, func(in []model.Item) []model.Item {
			calls++
			if calls == 1 {
				// A concurrent writer adds an item while the first attempt is in flight.
				added := append(append([]model.Item(nil), in...), model.Item{ID: 3, Name: "Three"})
				Expect(cache.NewRedisLists(other, "assign", time.Minute).Set(ctx, 7, model.ContentTypePrompts, added)).To(Succeed())
			}
			return cache.RemoveItem(1)(in)
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(2))

		got, _, err := lists.Get(ctx, 7, model.ContentTypePrompts)
		Expect(err).NotTo(HaveOccurred())
		ids := make([]int64, len(got))
		for i, item := range got {
			ids[i] = item.ID
		}
		Expect(ids).To(Equal([]int64{2, 3}))
	})

	It("gives up after repeated conflicts", func() {
		Expect(lists.Set(ctx, 7, model.ContentTypePrompts, items)).To(Succeed())
		writer := cache.NewRedisLists(other, "assign", time.Minute)

		calls := 0
		err := lists.Mutate(ctx, 7, model.ContentTypePrompts, func(in []model.Item) []model.Item {
			calls++
			Expect(writer.Set(ctx, 7, model.ContentTypePrompts, in)).To(Succeed())
			return in
		})

		Expect(err).To(MatchError(cache.ErrMutateConflict))
		Expect(calls).To(Equal(5))
	})

	It("drops a list on invalidate", func() {
		Expect(lists.Set(ctx, 7, model.ContentTypePrompts, items)).To(Succeed())
		Expect(lists.Invalidate(ctx, 7, model.ContentTypePrompts)).To(Succeed())

		_, ok, err := lists.Get(ctx, 7, model.ContentTypePrompts)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
