package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"patentdesk/internal/firm/models"
	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/platform/httputil"
	"patentdesk/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, d models.Details) (*models.Firm, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Firm, error)
	List(ctx context.Context, limit, offset int) ([]*models.Firm, error)
	Search(ctx context.Context, term string, limit int) ([]*models.Firm, error)
	Update(ctx context.Context, id uuid.UUID, d models.Details) (*models.Firm, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler wires firm endpoints to the firm service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts firm endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/firms", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[FirmRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	f, err := h.service.Create(ctx, req.Details())
	if err != nil {
		h.logFailure(ctx, "firm create failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, f)
}

// HandleList serves GET /firms?q=&limit=&offset=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be an integer"))
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "offset must be an integer"))
		return
	}

	var firms []*models.Firm
	if term := q.Get("q"); term != "" {
		firms, err = h.service.Search(ctx, term, limit)
	} else {
		firms, err = h.service.List(ctx, limit, offset)
	}
	if err != nil {
		h.logFailure(ctx, "firm list failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &FirmListResponse{Firms: firms, Count: len(firms)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := firmID(w, r)
	if !ok {
		return
	}
	f, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := firmID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FirmRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	f, err := h.service.Update(ctx, id, req.Details())
	if err != nil {
		h.logFailure(ctx, "firm update failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, f)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := firmID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, id); err != nil {
		h.logFailure(ctx, "firm delete failed", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

func firmID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid firm id"))
		return uuid.Nil, false
	}
	return id, true
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
