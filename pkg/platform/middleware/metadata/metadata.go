package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"patentdesk/pkg/requestcontext"
)

// ClientMetadata stores the client IP and a short user agent summary in the
// request context. Apply it early in the chain; the rate limiter keys on the IP.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(),
			ClientIPFromRequest(r),
			SummarizeUserAgent(r.Header.Get("User-Agent")),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SummarizeUserAgent reduces a User-Agent header to "browser version (os)",
// with a "bot" or "mobile" suffix where it applies.
func SummarizeUserAgent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	summary := strings.TrimSpace(name + " " + version)
	if summary == "" {
		summary = "unknown"
	}
	if os := ua.OS(); os != "" {
		summary += " (" + os + ")"
	}
	switch {
	case ua.Bot():
		summary += " bot"
	case ua.Mobile():
		summary += " mobile"
	}
	return summary
}

// ClientIPFromRequest returns the originating client IP, preferring the first
// X-Forwarded-For hop, then X-Real-IP, then RemoteAddr without its port.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
