package table

import "context"

// Client executes queries against one backing store. A failed fetch returns
// a nil slice and the error; callers decide whether partial progress survives.
type Client interface {
	Fetch(ctx context.Context, q Query) ([]Row, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, q Query) ([]Row, error)

func (f ClientFunc) Fetch(ctx context.Context, q Query) ([]Row, error) {
	return f(ctx, q)
}
