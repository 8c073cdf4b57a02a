package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"patentdesk/internal/platform/config"
	"patentdesk/pkg/platform/middleware/admin"
	"patentdesk/pkg/secrets"
	"patentdesk/pkg/testutil"
)

// buildApp registers Prometheus collectors on the default registry, so the
// router is built once for every subtest.
func TestAppRoutesWithMemoryBackends(t *testing.T) {
	token, err := secrets.Generate()
	require.NoError(t, err)
	hash, err := secrets.Hash(token)
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.Server.AdminTokenHash = hash
	cfg.RateLimit = config.RateLimitConfig{SearchLimit: 2, SearchWindow: time.Hour}

	a, err := buildApp(cfg, &infra{}, noop.NewTracerProvider(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = "203.0.113.9:4711"
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set(admin.HeaderAdminToken, token)
		}
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("health is public", func(t *testing.T) {
		rec := do(http.MethodGet, "/healthz", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("metrics are public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/metrics", "", "").Code)
	})

	t.Run("admin routes need the token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/admin/firms", "", "").Code)
		assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/admin/firms", "wrong", "").Code)
		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/firms", token, "").Code)
	})

	t.Run("empty bulletin lists no issues", func(t *testing.T) {
		rec := do(http.MethodGet, "/admin/bulletin/issues", token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"issues":[],"count":0}`, rec.Body.String())
	})

	t.Run("search is rate limited per client", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/bulletin/marks?q=ferko", token, "").Code)
		}
		rec := do(http.MethodGet, "/admin/bulletin/marks?q=ferko", token, "")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("firm with contracts cannot be deleted", func(t *testing.T) {
		type created struct {
			ID string `json:"id"`
		}
		rec := do(http.MethodPost, "/admin/firms", token,
			`{"corporate_title":"Ferko d.o.o.","email":"office@ferko.example"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		firm := testutil.Decode[created](t, rec)

		rec = do(http.MethodPost, "/admin/contracts", token,
			`{"firm_id":"`+firm.ID+`","service":"renewal","marks":["FERKO"],"fee":100,"currency":"EUR"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		contract := testutil.Decode[created](t, rec)

		rec = do(http.MethodDelete, "/admin/firms/"+firm.ID, token, "")
		testutil.AssertError(t, rec, http.StatusConflict, "conflict")

		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/firms/"+firm.ID, token, "").Code)
		assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/contracts/"+contract.ID, token, "").Code)
	})

	t.Run("contract for unknown firm is not found", func(t *testing.T) {
		rec := do(http.MethodPost, "/admin/contracts", token,
			`{"firm_id":"7d7c4b52-8f0e-4d8a-9d7e-0f5c1b7a1e11","service":"renewal","marks":["X"],"fee":100,"currency":"EUR"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
