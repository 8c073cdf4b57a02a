package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"patentdesk/internal/ratelimit/models"
)

// Redis is a fixed-window counter store shared by every instance. Each
// window is one key incremented with INCR and expired with the window.
type Redis struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client, now: time.Now}
}

func (s *Redis) Allow(ctx context.Context, route, clientIP string, limit models.Limit) (models.Result, error) {
	start := limit.WindowStart(s.now())
	resetAt := start.Add(limit.Window)
	key := models.Key(route, clientIP, start)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, resetAt.Add(time.Second))
		return nil
	})
	if err != nil {
		return models.Result{}, fmt.Errorf("redis rate limit: %w", err)
	}

	count := int(incr.Val())
	return models.Result{
		Allowed:   count <= limit.Requests,
		Limit:     limit.Requests,
		Remaining: max(limit.Requests-count, 0),
		ResetAt:   resetAt,
	}, nil
}
