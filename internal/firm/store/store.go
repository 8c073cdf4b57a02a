// Package store persists firm records in memory or in Postgres.
package store

import "patentdesk/pkg/platform/sentinel"

// Re-exported so callers can match store errors without importing sentinel.
var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)
