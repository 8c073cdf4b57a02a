package chatlog

import (
	"context"
	"log/slog"
	"strings"

	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/requestcontext"
)

const (
	defaultSessionLimit = 100
	maxSessionLimit     = 1000
)

// Service serves the chat-log viewer.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Sessions lists session summaries, most recently active first.
func (s *Service) Sessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	limit = min(limit, maxSessionLimit)
	sessions, err := s.store.Sessions(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list chat sessions")
	}
	return sessions, nil
}

// Transcript returns a session's messages cleaned for display.
func (s *Service) Transcript(ctx context.Context, sessionID string) (*Transcript, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "session id is required")
	}
	msgs, err := s.store.Messages(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load chat messages")
	}
	if len(msgs) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "chat session not found")
	}

	t := &Transcript{SessionID: sessionID, Entries: make([]Entry, 0, len(msgs))}
	for _, m := range msgs {
		t.Entries = append(t.Entries, NewEntry(m))
	}
	s.logger.DebugContext(ctx, "chat transcript rendered",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", sessionID,
		"entries", len(t.Entries),
	)
	return t, nil
}
