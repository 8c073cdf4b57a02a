package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ContractStore,FirmLookup,Publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"patentdesk/internal/contract/models"
	"patentdesk/internal/contract/ports"
	"patentdesk/internal/contract/render"
	"patentdesk/internal/contract/service/mocks"
	"patentdesk/internal/platform/metrics"
	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/platform/sentinel"
	"patentdesk/pkg/requestcontext"
)

type ContractServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockContractStore
	firms     *mocks.MockFirmLookup
	publisher *mocks.MockPublisher
	metrics   *metrics.Metrics
	service   *Service
	ctx       context.Context
	now       time.Time
	firmID    uuid.UUID
}

func TestContractServiceSuite(t *testing.T) {
	suite.Run(t, new(ContractServiceSuite))
}

func (s *ContractServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockContractStore(s.ctrl)
	s.firms = mocks.NewMockFirmLookup(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	renderer, err := render.New()
	s.Require().NoError(err)

	s.service, err = New(s.store, s.firms, s.publisher, renderer,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)

	s.now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.firmID = uuid.New()
}

func (s *ContractServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ContractServiceSuite) terms() models.Terms {
	return models.Terms{
		FirmID:     s.firmID,
		Service:    models.ServicePatentApplication,
		Marks:      []string{"Ferko"},
		Fee:        450000,
		Currency:   "eur",
		Recipients: []string{"Legal@Ferko.example", "legal@ferko.example"},
	}
}

func (s *ContractServiceSuite) draft() *models.Contract {
	terms := s.terms()
	terms.Normalize()
	c, err := models.NewDraft(uuid.New(), terms, "body", s.now)
	s.Require().NoError(err)
	return c
}

func (s *ContractServiceSuite) TestNew() {
	renderer, err := render.New()
	s.Require().NoError(err)

	s.Run("nil store returns error", func() {
		_, err := New(nil, s.firms, s.publisher, renderer)
		s.ErrorContains(err, "contract store is required")
	})
	s.Run("nil firm lookup returns error", func() {
		_, err := New(s.store, nil, s.publisher, renderer)
		s.ErrorContains(err, "firm lookup is required")
	})
	s.Run("nil publisher returns error", func() {
		_, err := New(s.store, s.firms, nil, renderer)
		s.ErrorContains(err, "publisher is required")
	})
	s.Run("nil renderer returns error", func() {
		_, err := New(s.store, s.firms, s.publisher, nil)
		s.ErrorContains(err, "renderer is required")
	})
}

func (s *ContractServiceSuite) TestGenerate() {
	s.Run("renders and stores a draft", func() {
		s.firms.EXPECT().FirmProfile(gomock.Any(), s.firmID).Return(&ports.FirmProfile{
			ID: s.firmID, Title: "Ferko Gida A.S.", City: "Izmir",
		}, nil)
		var stored *models.Contract
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c *models.Contract) error {
				stored = c
				return nil
			})

		c, err := s.service.Generate(s.ctx, s.terms())
		s.Require().NoError(err)
		s.Same(stored, c)
		s.Equal(models.StatusDraft, c.Status)
		s.Equal([]string{"legal@ferko.example"}, c.Recipients)
		s.Equal("EUR", c.Currency)
		s.Equal(s.now, c.CreatedAt)
		s.Contains(c.Body, "Client: Ferko Gida A.S.")
		s.Contains(c.Body, "4,500.00 EUR")
	})

	s.Run("falls back to the firm email", func() {
		terms := s.terms()
		terms.Recipients = nil
		s.firms.EXPECT().FirmProfile(gomock.Any(), s.firmID).Return(&ports.FirmProfile{
			ID: s.firmID, Title: "Ferko", Email: "office@ferko.example",
		}, nil)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		c, err := s.service.Generate(s.ctx, terms)
		s.Require().NoError(err)
		s.Equal([]string{"office@ferko.example"}, c.Recipients)
	})

	s.Run("no recipients and no firm email is a validation error", func() {
		terms := s.terms()
		terms.Recipients = nil
		s.firms.EXPECT().FirmProfile(gomock.Any(), s.firmID).Return(&ports.FirmProfile{ID: s.firmID, Title: "Ferko"}, nil)

		_, err := s.service.Generate(s.ctx, terms)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("invalid terms never reach the stores", func() {
		terms := s.terms()
		terms.Fee = 0
		_, err := s.service.Generate(s.ctx, terms)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown firm is not found", func() {
		s.firms.EXPECT().FirmProfile(gomock.Any(), s.firmID).Return(nil, fmt.Errorf("lookup: %w", sentinel.ErrNotFound))

		_, err := s.service.Generate(s.ctx, s.terms())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is internal", func() {
		s.firms.EXPECT().FirmProfile(gomock.Any(), s.firmID).Return(&ports.FirmProfile{ID: s.firmID, Title: "Ferko"}, nil)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := s.service.Generate(s.ctx, s.terms())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ContractServiceSuite) TestSend() {
	s.Run("publishes once and marks sent", func() {
		c := s.draft()
		s.store.EXPECT().FindByID(gomock.Any(), c.ID).Return(c, nil)
		s.publisher.EXPECT().PublishContractEmail(gomock.Any(), ports.EmailRequest{
			ContractID: c.ID,
			Recipients: []string{"legal@ferko.example"},
			Subject:    "Patent Application contract: Ferko",
			Body:       "body",
		}).Return(nil).Times(1)
		s.store.EXPECT().MarkSent(gomock.Any(), c.ID, s.now).Return(nil)

		sent, err := s.service.Send(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusSent, sent.Status)
		s.Equal(s.now, *sent.SentAt)
		s.InDelta(1, testutil.ToFloat64(s.metrics.ContractsSent.WithLabelValues("sent")), 0)
	})

	s.Run("publish failure leaves the draft untouched", func() {
		c := s.draft()
		s.store.EXPECT().FindByID(gomock.Any(), c.ID).Return(c, nil)
		s.publisher.EXPECT().PublishContractEmail(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := s.service.Send(s.ctx, c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Equal(models.StatusDraft, c.Status)
		s.Nil(c.SentAt)
		s.InDelta(1, testutil.ToFloat64(s.metrics.ContractsSent.WithLabelValues("failed")), 0)
	})

	s.Run("already sent is a conflict without publishing", func() {
		c := s.draft()
		s.Require().NoError(c.MarkSent(s.now))
		s.store.EXPECT().FindByID(gomock.Any(), c.ID).Return(c, nil)

		_, err := s.service.Send(s.ctx, c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("concurrent send loses the state race", func() {
		c := s.draft()
		s.store.EXPECT().FindByID(gomock.Any(), c.ID).Return(c, nil)
		s.publisher.EXPECT().PublishContractEmail(gomock.Any(), gomock.Any()).Return(nil)
		s.store.EXPECT().MarkSent(gomock.Any(), c.ID, s.now).Return(sentinel.ErrInvalidState)

		_, err := s.service.Send(s.ctx, c.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("missing contract is not found", func() {
		id := uuid.New()
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Send(s.ctx, id)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ContractServiceSuite) TestListByFirm() {
	s.Run("requires a firm id", func() {
		_, err := s.service.ListByFirm(s.ctx, uuid.Nil)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("returns the store result", func() {
		c := s.draft()
		s.store.EXPECT().ListByFirm(gomock.Any(), s.firmID).Return([]*models.Contract{c}, nil)

		cs, err := s.service.ListByFirm(s.ctx, s.firmID)
		s.Require().NoError(err)
		s.Len(cs, 1)
	})
}
