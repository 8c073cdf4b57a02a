package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyEscapesSegments(t *testing.T) {
	start := time.Date(2024, 3, 5, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, "rl:search:2001_db8__1:20240305T101500", Key("search", "2001:db8::1", start))
}

func TestWindowStart(t *testing.T) {
	l := Limit{Requests: 30, Window: time.Minute}
	now := time.Date(2024, 3, 5, 10, 15, 42, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 15, 0, 0, time.UTC), l.WindowStart(now))
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 15, 42, 0, time.UTC)
	assert.Equal(t, 18, Result{ResetAt: now.Add(18 * time.Second)}.RetryAfter(now))
	assert.Equal(t, 1, Result{ResetAt: now}.RetryAfter(now))
}
