package revalidate

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Notifier signals the rendering tier that the cached page at a path is stale.
// Invalidate is fire-and-forget: delivery failures are logged, never returned,
// and must not fail the mutation that triggered them.
type Notifier interface {
	Invalidate(ctx context.Context, path string)
}

type redisNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisNotifier creates a Notifier that publishes stale paths on a Redis
// channel. The rendering tier subscribes to the channel and purges its cache.
func NewRedisNotifier(client *redis.Client, channel string) Notifier {
	return &redisNotifier{client: client, channel: channel}
}

func (n *redisNotifier) Invalidate(ctx context.Context, path string) {
	if path == "" {
		return
	}

	if err := n.client.Publish(ctx, n.channel, path).Err(); err != nil {
		slog.Warn("failed to publish revalidation",
			slog.String("path", path),
			slog.String("channel", n.channel),
			slog.String("error", err.Error()),
		)
	}
}

type noopNotifier struct{}

// NewNoopNotifier creates a Notifier that drops every signal.
// Used when no Redis instance is configured and in tests.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Invalidate(ctx context.Context, path string) {}
