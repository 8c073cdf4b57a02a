package store

import (
	"context"
	"sync"
	"time"

	"patentdesk/internal/ratelimit/models"
)

type counter struct {
	count   int
	resetAt time.Time
}

// InMemory is a fixed-window counter store for single-instance deployments
// and the fallback path when Redis is unreachable.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[string]*counter), now: time.Now}
}

// Allow counts one request for route and clientIP in the current window.
func (s *InMemory) Allow(_ context.Context, route, clientIP string, limit models.Limit) (models.Result, error) {
	now := s.now()
	start := limit.WindowStart(now)
	key := models.Key(route, clientIP, start)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)

	c := s.counters[key]
	if c == nil {
		c = &counter{resetAt: start.Add(limit.Window)}
		s.counters[key] = c
	}
	c.count++
	return models.Result{
		Allowed:   c.count <= limit.Requests,
		Limit:     limit.Requests,
		Remaining: max(limit.Requests-c.count, 0),
		ResetAt:   c.resetAt,
	}, nil
}

// sweep drops expired windows. Must be called with s.mu held.
func (s *InMemory) sweep(now time.Time) {
	for k, c := range s.counters {
		if !now.Before(c.resetAt) {
			delete(s.counters, k)
		}
	}
}
