package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/contract/adapters"
	"patentdesk/internal/contract/models"
	"patentdesk/internal/contract/ports"
	"patentdesk/internal/contract/publisher"
	"patentdesk/internal/contract/render"
	"patentdesk/internal/contract/service"
	"patentdesk/internal/contract/store"
	firmModels "patentdesk/internal/firm/models"
	firmService "patentdesk/internal/firm/service"
	firmStore "patentdesk/internal/firm/store"
	"patentdesk/pkg/testutil"
)

type switchablePublisher struct {
	inner *publisher.InMemory
	fail  bool
}

func (p *switchablePublisher) PublishContractEmail(ctx context.Context, req ports.EmailRequest) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	return p.inner.PublishContractEmail(ctx, req)
}

type fixture struct {
	router    http.Handler
	publisher *switchablePublisher
	firmID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	firms := firmService.New(firmStore.NewInMemory())
	firm, err := firms.Create(context.Background(), firmModels.Details{
		CorporateTitle: "Ferko d.o.o.",
		Email:          "office@ferko.example",
	})
	require.NoError(t, err)

	renderer, err := render.New()
	require.NoError(t, err)
	pub := &switchablePublisher{inner: publisher.NewInMemory()}
	svc, err := service.New(store.NewInMemory(), adapters.NewFirmAdapter(firms), pub, renderer,
		service.WithLogger(logger))
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return &fixture{router: r, publisher: pub, firmID: firm.ID}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(f.router, testutil.NewJSONRequest(t, method, path, body))
}

func (f *fixture) generate(t *testing.T) models.Contract {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/contracts", map[string]any{
		"firm_id":  f.firmID.String(),
		"service":  "Trademark_Registration",
		"marks":    []string{"FERKO"},
		"fee":      125000,
		"currency": "eur",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return testutil.Decode[models.Contract](t, rec)
}

func TestGenerateAndSend(t *testing.T) {
	f := newFixture(t)
	c := f.generate(t)
	assert.Equal(t, models.StatusDraft, c.Status)
	assert.Equal(t, []string{"office@ferko.example"}, c.Recipients)
	assert.Contains(t, c.Body, "1,250.00 EUR")

	rec := f.do(t, http.MethodGet, "/contracts/"+c.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/contracts/"+c.ID.String()+"/send", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sent := testutil.Decode[models.Contract](t, rec)
	assert.Equal(t, models.StatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)
	require.Len(t, f.publisher.inner.Messages(), 1)

	rec = f.do(t, http.MethodPost, "/contracts/"+c.ID.String()+"/send", nil)
	testutil.AssertError(t, rec, http.StatusConflict, "conflict")
	assert.Len(t, f.publisher.inner.Messages(), 1, "a sent contract is never published twice")

	rec = f.do(t, http.MethodGet, "/contracts?firm_id="+f.firmID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, testutil.Decode[ListResponse](t, rec).Count)
}

func TestSendPublishFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	c := f.generate(t)

	f.publisher.fail = true
	rec := f.do(t, http.MethodPost, "/contracts/"+c.ID.String()+"/send", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.do(t, http.MethodGet, "/contracts/"+c.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusDraft, testutil.Decode[models.Contract](t, rec).Status)

	f.publisher.fail = false
	rec = f.do(t, http.MethodPost, "/contracts/"+c.ID.String()+"/send", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "a draft can be sent again once the broker recovers")
}

func TestGenerateValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/contracts", map[string]any{"firm_id": "nope", "service": "renewal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/contracts", map[string]any{
		"firm_id": f.firmID.String(), "service": "lawsuit", "marks": []string{"X"}, "fee": 1, "currency": "EUR",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/contracts", map[string]any{
		"firm_id": uuid.NewString(), "service": "renewal", "marks": []string{"X"}, "fee": 1, "currency": "EUR",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/contracts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/contracts/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
