package models

import (
	"strings"
	"time"
)

// Result is the outcome of one limiter check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole seconds until the window resets, at least 1.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second) / time.Second)
	return max(secs, 1)
}

// Limit is a fixed window quota.
type Limit struct {
	Requests int
	Window   time.Duration
}

// WindowStart truncates now to the window boundary.
func (l Limit) WindowStart(now time.Time) time.Time {
	return now.Truncate(l.Window)
}

// SanitizeKeySegment replaces ':' so caller-controlled values cannot forge
// adjacent key segments.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// Key builds the counter key for one route, client and window.
func Key(route, clientIP string, windowStart time.Time) string {
	return "rl:" + SanitizeKeySegment(route) + ":" + SanitizeKeySegment(clientIP) + ":" +
		windowStart.UTC().Format("20060102T150405")
}
