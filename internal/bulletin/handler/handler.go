package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"patentdesk/internal/bulletin"
	"patentdesk/pkg/platform/httputil"
	"patentdesk/pkg/requestcontext"
)

// Service defines the bulletin operations the handler needs.
type Service interface {
	ListIssueNumbers(ctx context.Context) []string
	SearchMarks(ctx context.Context, term string, opts bulletin.SearchOptions) bulletin.SearchResult
	WatchIssue(ctx context.Context, issue bulletin.IssueNumber) (*bulletin.WatchReport, error)
}

// Handler wires bulletin endpoints to the bulletin service.
type Handler struct {
	service Service
	logger  *slog.Logger
	// searchGuard wraps the search route, typically with a rate limiter.
	searchGuard func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithSearchMiddleware installs middleware on the mark search route only.
func WithSearchMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.searchGuard = mw
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts bulletin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/bulletin/issues", h.HandleListIssues)
	r.Get("/bulletin/issues/{issue}/watch", h.HandleWatchIssue)
	if h.searchGuard != nil {
		r.With(h.searchGuard).Get("/bulletin/marks", h.HandleSearchMarks)
		return
	}
	r.Get("/bulletin/marks", h.HandleSearchMarks)
}

// HandleListIssues handles GET /bulletin/issues.
func (h *Handler) HandleListIssues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	issues := h.service.ListIssueNumbers(ctx)

	h.logger.InfoContext(ctx, "bulletin issues listed",
		"request_id", requestcontext.RequestID(ctx),
		"count", len(issues),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, &IssuesResponse{Issues: issues, Count: len(issues)})
}

// HandleSearchMarks handles GET /bulletin/marks?q=&issue=.
func (h *Handler) HandleSearchMarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req := searchRequestFrom(r.URL.Query())
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(ctx, "invalid bulletin search",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	res := h.service.SearchMarks(ctx, req.Query, req.Options())

	h.logger.InfoContext(ctx, "bulletin marks searched",
		"request_id", requestID,
		"count", len(res.Marks),
		"truncated", res.Truncated,
		"partial", res.Partial,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromSearchResult(res))
}

// HandleWatchIssue handles GET /bulletin/issues/{issue}/watch.
func (h *Handler) HandleWatchIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	issue, err := bulletin.ParseIssueNumber(chi.URLParam(r, "issue"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.WatchIssue(ctx, issue)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulletin watch report failed",
			"request_id", requestID,
			"issue", issue.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromWatchReport(report))
}
