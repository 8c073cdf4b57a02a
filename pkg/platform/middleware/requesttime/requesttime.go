// Package requesttime pins "now" for the duration of a request so created_at,
// updated_at and sent_at stamps written by one request agree.
package requesttime

import (
	"net/http"
	"time"

	"patentdesk/pkg/requestcontext"
)

// Middleware records the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
