package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"patentdesk/internal/firm/models"
	"patentdesk/internal/firm/store"
	"patentdesk/internal/platform/metrics"
	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/requestcontext"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type FirmStore interface {
	Create(ctx context.Context, f *models.Firm) error
	Update(ctx context.Context, f *models.Firm) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Firm, error)
	List(ctx context.Context, limit, offset int) ([]*models.Firm, error)
	Search(ctx context.Context, term string, limit int) ([]*models.Firm, error)
}

// ContractCounter reports how many contracts reference a firm. A firm with
// contracts cannot be deleted.
type ContractCounter interface {
	CountByFirm(ctx context.Context, firmID uuid.UUID) (int, error)
}

// Service manages the agency's firm records.
type Service struct {
	firms     FirmStore
	contracts ContractCounter
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

func WithContractCounter(c ContractCounter) Option {
	return func(s *Service) {
		s.contracts = c
	}
}

func New(firms FirmStore, opts ...Option) *Service {
	s := &Service{firms: firms, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, d models.Details) (*models.Firm, error) {
	f, err := models.NewFirm(uuid.New(), d, requestcontext.Now(ctx))
	if err != nil {
		return nil, asValidation(err)
	}
	if err := s.firms.Create(ctx, f); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "a firm with this tax number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create firm")
	}
	s.metrics.IncrementFirmsCreated()
	s.logger.InfoContext(ctx, "firm created",
		"request_id", requestcontext.RequestID(ctx),
		"firm_id", f.ID,
	)
	return f, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Firm, error) {
	f, err := s.firms.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load firm")
	}
	return f, nil
}

// List pages firms by title. A non-positive limit selects DefaultListLimit.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Firm, error) {
	if offset < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "offset must not be negative")
	}
	firms, err := s.firms.List(ctx, clampLimit(limit), offset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list firms")
	}
	return firms, nil
}

// Search matches term against title, tax number, contact and city. An empty
// term behaves like List.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]*models.Firm, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx, limit, 0)
	}
	firms, err := s.firms.Search(ctx, term, clampLimit(limit))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search firms")
	}
	return firms, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, d models.Details) (*models.Firm, error) {
	f, err := s.firms.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load firm")
	}
	if err := f.Apply(d, requestcontext.Now(ctx)); err != nil {
		return nil, asValidation(err)
	}
	if err := s.firms.Update(ctx, f); err != nil {
		return nil, translate(err, "failed to update firm")
	}
	s.logger.InfoContext(ctx, "firm updated",
		"request_id", requestcontext.RequestID(ctx),
		"firm_id", f.ID,
	)
	return f, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.contracts != nil {
		n, err := s.contracts.CountByFirm(ctx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count firm contracts")
		}
		if n > 0 {
			return errFirmHasContracts
		}
	}
	if err := s.firms.Delete(ctx, id); err != nil {
		// the only conflict on delete is a contract still referencing the firm
		if errors.Is(err, store.ErrConflict) {
			return errFirmHasContracts
		}
		return translate(err, "failed to delete firm")
	}
	s.logger.InfoContext(ctx, "firm deleted",
		"request_id", requestcontext.RequestID(ctx),
		"firm_id", id,
	)
	return nil
}

// Titles returns every firm's id and corporate title, in title order. Used
// by the bulletin watch report.
func (s *Service) Titles(ctx context.Context) ([]*models.Firm, error) {
	var out []*models.Firm
	for offset := 0; ; offset += MaxListLimit {
		page, err := s.firms.List(ctx, MaxListLimit, offset)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list firms")
		}
		out = append(out, page...)
		if len(page) < MaxListLimit {
			return out, nil
		}
	}
}

var errFirmHasContracts = dErrors.New(dErrors.CodeConflict, "firm has contracts")

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "firm not found")
	case errors.Is(err, store.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "a firm with this tax number already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
