package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"patentdesk/internal/contract/models"
	"patentdesk/internal/contract/ports"
	"patentdesk/internal/contract/render"
	"patentdesk/internal/platform/metrics"
	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/platform/sentinel"
	"patentdesk/pkg/requestcontext"
)

type ContractStore interface {
	Create(ctx context.Context, c *models.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListByFirm(ctx context.Context, firmID uuid.UUID) ([]*models.Contract, error)
	// MarkSent flips a draft to sent. It returns sentinel.ErrInvalidState
	// when the contract is no longer a draft.
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}

type FirmLookup interface {
	FirmProfile(ctx context.Context, id uuid.UUID) (*ports.FirmProfile, error)
}

type Publisher interface {
	PublishContractEmail(ctx context.Context, req ports.EmailRequest) error
}

// Service drafts contracts and hands them to the mail pipeline.
type Service struct {
	contracts ContractStore
	firms     FirmLookup
	publisher Publisher
	renderer  *render.Renderer
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(contracts ContractStore, firms FirmLookup, publisher Publisher, renderer *render.Renderer, opts ...Option) (*Service, error) {
	if contracts == nil {
		return nil, errors.New("contract store is required")
	}
	if firms == nil {
		return nil, errors.New("firm lookup is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	s := &Service{
		contracts: contracts,
		firms:     firms,
		publisher: publisher,
		renderer:  renderer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate validates terms, renders the agreement for the firm and stores it
// as a draft. Without explicit recipients the firm's email is used.
func (s *Service) Generate(ctx context.Context, terms models.Terms) (*models.Contract, error) {
	terms.Normalize()
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	firm, err := s.firms.FirmProfile(ctx, terms.FirmID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "firm not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load firm")
	}
	if len(terms.Recipients) == 0 {
		if firm.Email == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "recipients are required when the firm has no email")
		}
		terms.Recipients = []string{firm.Email}
	}

	now := requestcontext.Now(ctx)
	body, err := s.renderer.Render(terms, render.Party{
		Title:     firm.Title,
		TaxNumber: firm.TaxNumber,
		Address:   firm.Address,
		City:      firm.City,
	}, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render contract")
	}

	c, err := models.NewDraft(uuid.New(), terms, body, now)
	if err != nil {
		return nil, err
	}
	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contract")
	}
	s.logger.InfoContext(ctx, "contract drafted",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", c.ID,
		"firm_id", c.FirmID,
		"service", c.Service,
	)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load contract")
	}
	return c, nil
}

func (s *Service) ListByFirm(ctx context.Context, firmID uuid.UUID) ([]*models.Contract, error) {
	if firmID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeValidation, "firm_id is required")
	}
	cs, err := s.contracts.ListByFirm(ctx, firmID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	return cs, nil
}

// Send publishes one email request for a draft and marks it sent. When the
// publish fails the contract stays a draft and can be sent again.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load contract")
	}
	if !c.IsDraft() {
		return nil, dErrors.New(dErrors.CodeConflict, "contract has already been sent")
	}

	err = s.publisher.PublishContractEmail(ctx, ports.EmailRequest{
		ContractID: c.ID,
		Recipients: c.Recipients,
		Subject:    c.Subject(),
		Body:       c.Body,
	})
	if err != nil {
		s.metrics.IncrementContractsSent("failed")
		s.logger.ErrorContext(ctx, "contract email publish failed",
			"request_id", requestcontext.RequestID(ctx),
			"contract_id", c.ID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "mail service is unavailable")
	}

	sentAt := requestcontext.Now(ctx)
	if err := s.contracts.MarkSent(ctx, c.ID, sentAt); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeConflict, "contract has already been sent")
		}
		return nil, translate(err, "failed to mark contract sent")
	}
	if err := c.MarkSent(sentAt); err != nil {
		return nil, err
	}
	s.metrics.IncrementContractsSent("sent")
	s.logger.InfoContext(ctx, "contract sent",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", c.ID,
		"recipients", len(c.Recipients),
	)
	return c, nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "contract not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
