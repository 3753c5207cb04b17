package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisNotifier publishes notifications to a Redis stream the web client
// tails to show toasts. The stream is trimmed to roughly maxLen entries.
func NewRedisNotifier(client *redis.Client, stream string, maxLen int64) Notifier {
	return &redisNotifier{client: client, stream: stream, maxLen: maxLen}
}

func (r *redisNotifier) Notify(ctx context.Context, n Notification) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: StreamValues(n, createdAt),
	}).Err(); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}
	return nil
}

// StreamValues is the field layout of one stream entry.
func StreamValues(n Notification, createdAt time.Time) map[string]any {
	return map[string]any{
		"level":      string(n.Level),
		"message":    n.Message,
		"user_id":    n.UserID,
		"session_id": n.SessionID,
		"created_at": createdAt.UTC().Format(time.RFC3339Nano),
	}
}
