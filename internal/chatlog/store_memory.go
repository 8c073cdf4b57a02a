package chatlog

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
)

// InMemoryStore keeps chat messages in a slice.
type InMemoryStore struct {
	mu       sync.RWMutex
	messages []Message
	nextID   int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, m Message) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	s.messages = append(s.messages, m)
	return m.ID, nil
}

func (s *InMemoryStore) Sessions(_ context.Context, limit int) ([]Session, error) {
	s.mu.RLock()
	bySession := make(map[string]*Session)
	for _, m := range s.messages {
		sess, ok := bySession[m.SessionID]
		if !ok {
			sess = &Session{SessionID: m.SessionID, FirstAt: m.CreatedAt, LastAt: m.CreatedAt}
			bySession[m.SessionID] = sess
		}
		sess.MessageCount++
		if m.CreatedAt.Before(sess.FirstAt) {
			sess.FirstAt = m.CreatedAt
		}
		if m.CreatedAt.After(sess.LastAt) {
			sess.LastAt = m.CreatedAt
		}
	}
	s.mu.RUnlock()

	out := make([]Session, 0, len(bySession))
	for _, sess := range bySession {
		out = append(out, *sess)
	}
	slices.SortFunc(out, func(a, b Session) int {
		if c := b.LastAt.Compare(a.LastAt); c != 0 {
			return c
		}
		return strings.Compare(a.SessionID, b.SessionID)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Messages(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.RLock()
	out := []Message{}
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
