package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"patentdesk/internal/contract/models"
	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/platform/httputil"
	"patentdesk/pkg/requestcontext"
)

type Service interface {
	Generate(ctx context.Context, terms models.Terms) (*models.Contract, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListByFirm(ctx context.Context, firmID uuid.UUID) ([]*models.Contract, error)
	Send(ctx context.Context, id uuid.UUID) (*models.Contract, error)
}

// ListResponse is the body of GET /admin/contracts?firm_id=.
type ListResponse struct {
	Contracts []*models.Contract `json:"contracts"`
	Count     int                `json:"count"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/contracts", func(r chi.Router) {
		r.Post("/", h.HandleGenerate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Post("/{id}/send", h.HandleSend)
	})
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.Generate(ctx, req.Terms())
	if err != nil {
		h.logFailure(ctx, "contract generate failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID, err := uuid.Parse(r.URL.Query().Get("firm_id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "firm_id must be a uuid"))
		return
	}
	cs, err := h.service.ListByFirm(ctx, firmID)
	if err != nil {
		h.logFailure(ctx, "contract list failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ListResponse{Contracts: cs, Count: len(cs)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logFailure(r.Context(), "contract get failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// HandleSend serves POST /contracts/{id}/send. A mail pipeline outage is a
// 503 and the contract stays a draft.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := contractID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Send(ctx, id)
	if err != nil {
		h.logFailure(ctx, "contract send failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func contractID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid contract id"))
		return uuid.Nil, false
	}
	return id, true
}
