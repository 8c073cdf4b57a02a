package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/chatlog"
)

func newChatRouter(t *testing.T) (http.Handler, *chatlog.InMemoryStore) {
	t.Helper()
	store := chatlog.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(chatlog.NewService(store, logger), logger).Register(r)
	return r, store
}

func TestTranscriptEndpoint(t *testing.T) {
	router, store := newChatRouter(t)
	_, err := store.Append(context.Background(), chatlog.Message{
		SessionID: "abc",
		Role:      "user",
		Content:   "[today=2024-03-05] [email=ana@firma.hr] Pozdrav",
		CreatedAt: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/sessions/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body chatlog.Transcript
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "Pozdrav", body.Entries[0].Content)
	assert.Equal(t, "2024-03-05", body.Entries[0].Date)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/sessions/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionsEndpoint(t *testing.T) {
	router, store := newChatRouter(t)
	for _, id := range []string{"a", "b"} {
		_, err := store.Append(context.Background(), chatlog.Message{SessionID: id, Role: "user", Content: "x", CreatedAt: time.Now()})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/sessions?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body SessionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/sessions?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
