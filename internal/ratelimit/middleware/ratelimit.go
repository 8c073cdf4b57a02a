package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"patentdesk/internal/platform/metrics"
	"patentdesk/internal/ratelimit/models"
	"patentdesk/pkg/platform/circuit"
	"patentdesk/pkg/platform/httputil"
	"patentdesk/pkg/requestcontext"
)

// Store counts requests per route and client within fixed windows.
type Store interface {
	Allow(ctx context.Context, route, clientIP string, limit models.Limit) (models.Result, error)
}

type Middleware struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limit    models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	disabled bool
}

type Option func(*Middleware)

// WithFallback sets the store used while the primary is failing.
func WithFallback(s Store) Option {
	return func(m *Middleware) {
		m.fallback = s
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// WithDisabled turns the limiter into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(primary Store, limit models.Limit, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary: primary,
		breaker: circuit.New("ratelimit"),
		limit:   limit,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled || limit.Requests <= 0 || limit.Window <= 0 {
		m.disabled = true
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits requests per client IP on one route. Limiter errors let
// the request through.
func (m *Middleware) RateLimit(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			result, degraded, err := m.check(ctx, route, ip)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"request_id", requestcontext.RequestID(ctx),
					"route", route,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if degraded {
				w.Header().Set("X-RateLimit-Status", "degraded")
			}
			if !result.Allowed {
				m.metrics.IncrementRateLimited()
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"request_id", requestcontext.RequestID(ctx),
					"route", route,
				)
				m.writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// check asks the primary store. While the breaker is open the fallback
// answers and the primary is still probed so the circuit can close.
func (m *Middleware) check(ctx context.Context, route, ip string) (models.Result, bool, error) {
	res, err := m.primary.Allow(ctx, route, ip, m.limit)
	if m.fallback == nil {
		return res, false, err
	}

	if err == nil {
		usePrimary, change := m.breaker.RecordSuccess()
		if change.Closed {
			m.logger.InfoContext(ctx, "rate limit store recovered",
				"breaker", m.breaker.Name(),
				"state", m.breaker.State().String(),
			)
		}
		if usePrimary {
			return res, false, nil
		}
	} else {
		useFallback, change := m.breaker.RecordFailure()
		if change.Opened {
			m.logger.WarnContext(ctx, "rate limit store failing, using in-memory fallback",
				"breaker", m.breaker.Name(),
				"state", m.breaker.State().String(),
				"error", err,
			)
		}
		if !useFallback {
			return models.Result{}, false, err
		}
	}

	res, err = m.fallback.Allow(ctx, route, ip, m.limit)
	return res, true, err
}

func addRateLimitHeaders(w http.ResponseWriter, result models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func (m *Middleware) writeRateLimitExceeded(w http.ResponseWriter, result models.Result) {
	retryAfter := result.RetryAfter(m.now())
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, models.ExceededResponse{
		Error:            "rate_limit_exceeded",
		ErrorDescription: "Too many search requests. Please try again later.",
		RetryAfter:       retryAfter,
	})
}
