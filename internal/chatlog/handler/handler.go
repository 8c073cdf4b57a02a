package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"patentdesk/internal/chatlog"
	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/platform/httputil"
	"patentdesk/pkg/requestcontext"
)

type Service interface {
	Sessions(ctx context.Context, limit int) ([]chatlog.Session, error)
	Transcript(ctx context.Context, sessionID string) (*chatlog.Transcript, error)
}

// Handler serves the chat-log viewer.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/chat/sessions", h.HandleSessions)
	r.Get("/chat/sessions/{sessionID}", h.HandleTranscript)
}

type SessionsResponse struct {
	Sessions []chatlog.Session `json:"sessions"`
	Count    int               `json:"count"`
}

// HandleSessions handles GET /chat/sessions?limit=.
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	sessions, err := h.service.Sessions(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "chat session list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &SessionsResponse{Sessions: sessions, Count: len(sessions)})
}

// HandleTranscript handles GET /chat/sessions/{sessionID}.
func (h *Handler) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := h.service.Transcript(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "chat transcript failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}
