package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/assign/internal/model"
	"github.com/redis/go-redis/v9"
)

const maxMutateAttempts = 5

var ErrMutateConflict = errors.New("cached list changed concurrently")

type redisLists struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLists stores each list as a JSON string under
// "<prefix>:items:<workspace>:<content type>".
func NewRedisLists(client *redis.Client, prefix string, ttl time.Duration) ItemLists {
	return &redisLists{client: client, prefix: prefix, ttl: ttl}
}

func (r *redisLists) key(workspaceID int64, ct model.ContentType) string {
	return fmt.Sprintf("%s:items:%d:%s", r.prefix, workspaceID, ct)
}

func (r *redisLists) Get(ctx context.Context, workspaceID int64, ct model.ContentType) ([]model.Item, bool, error) {
	raw, err := r.client.Get(ctx, r.key(workspaceID, ct)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached %s: %w", ct, err)
	}

	var items []model.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decoding cached %s: %w", ct, err)
	}
	return items, true, nil
}

func (r *redisLists) Set(ctx context.Context, workspaceID int64, ct model.ContentType, items []model.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ct, err)
	}
	if err := r.client.Set(ctx, r.key(workspaceID, ct), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("caching %s: %w", ct, err)
	}
	return nil
}

func (r *redisLists) Invalidate(ctx context.Context, workspaceID int64, ct model.ContentType) error {
	if err := r.client.Del(ctx, r.key(workspaceID, ct)).Err(); err != nil {
		return fmt.Errorf("invalidating cached %s: %w", ct, err)
	}
	return nil
}

// Mutate uses WATCH/MULTI so concurrent editors never overwrite each other's
// changes; a conflicting write triggers a retry with the fresh list.
func (r *redisLists) Mutate(ctx context.Context, workspaceID int64, ct model.ContentType, fn Mutation) error {
	key := r.key(workspaceID, ct)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}

		var items []model.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decoding cached %s: %w", ct, err)
		}

		updated, err := json.Marshal(fn(items))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", ct, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, r.ttl)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxMutateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			slog.DebugContext(ctx, "cached list changed during mutate, retrying", "key", key, "attempt", attempt)
			continue
		}
		return fmt.Errorf("mutating cached %s: %w", ct, err)
	}
	return fmt.Errorf("%w: %s", ErrMutateConflict, key)
}
