package chatlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "patentdesk/pkg/domain-errors"
)

type brokenStore struct{}

func (brokenStore) Sessions(context.Context, int) ([]Session, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Messages(context.Context, string) ([]Message, error) {
	return nil, errors.New("connection refused")
}

type ServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
	ctx     context.Context
	base    time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.service = NewService(s.store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = context.Background()
	s.base = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) add(session, role, content string, offset time.Duration) {
	_, err := s.store.Append(s.ctx, Message{SessionID: session, Role: role, Content: content, CreatedAt: s.base.Add(offset)})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestTranscript() {
	s.add("s1", "assistant", `{"response": "Pronašao sam **2** žiga."}`, time.Minute)
	s.add("s1", "user", "[today=2024-03-05] Ima li žigova za Ferko?", 0)
	s.add("s2", "user", "other session", 0)

	t, err := s.service.Transcript(s.ctx, " s1 ")
	s.Require().NoError(err)
	s.Equal("s1", t.SessionID)
	s.Require().Len(t.Entries, 2)

	s.Equal("user", t.Entries[0].Role)
	s.Equal("Ima li žigova za Ferko?", t.Entries[0].Content)
	s.Equal("2024-03-05", t.Entries[0].Date)

	s.Equal("Pronašao sam <strong>2</strong> žiga.", t.Entries[1].Content)
	s.Empty(t.Entries[1].Date)
}

func (s *ServiceSuite) TestTranscriptErrors() {
	s.Run("blank session id", func() {
		_, err := s.service.Transcript(s.ctx, "  ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown session", func() {
		_, err := s.service.Transcript(s.ctx, "missing")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure", func() {
		_, err := NewService(brokenStore{}, nil).Transcript(s.ctx, "s1")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestSessions() {
	s.add("old", "user", "a", 0)
	s.add("old", "assistant", "b", time.Minute)
	s.add("new", "user", "c", time.Hour)

	sessions, err := s.service.Sessions(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal("new", sessions[0].SessionID)
	s.Equal(2, sessions[1].MessageCount)
	s.Equal(s.base, sessions[1].FirstAt)
	s.Equal(s.base.Add(time.Minute), sessions[1].LastAt)

	limited, err := s.service.Sessions(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)

	_, err = NewService(brokenStore{}, nil).Sessions(s.ctx, 10)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
