// Package store persists contracts in memory or in Postgres.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"patentdesk/internal/contract/models"
	"patentdesk/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded contract store. It returns copies so callers
// cannot mutate stored state.
type InMemory struct {
	mu        sync.RWMutex
	contracts map[uuid.UUID]*models.Contract
}

func NewInMemory() *InMemory {
	return &InMemory{contracts: make(map[uuid.UUID]*models.Contract)}
}

func (s *InMemory) Create(_ context.Context, c *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[c.ID]; ok {
		return fmt.Errorf("contract %s: %w", c.ID, sentinel.ErrConflict)
	}
	s.contracts[c.ID] = clone(c)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, fmt.Errorf("contract %s: %w", id, sentinel.ErrNotFound)
	}
	return clone(c), nil
}

// ListByFirm returns the firm's contracts, newest first.
func (s *InMemory) ListByFirm(_ context.Context, firmID uuid.UUID) ([]*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Contract, 0)
	for _, c := range s.contracts {
		if c.FirmID == firmID {
			out = append(out, clone(c))
		}
	}
	slices.SortFunc(out, func(a, b *models.Contract) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByFirm(_ context.Context, firmID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.contracts {
		if c.FirmID == firmID {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return fmt.Errorf("contract %s: %w", id, sentinel.ErrNotFound)
	}
	if !c.IsDraft() {
		return fmt.Errorf("contract %s: %w", id, sentinel.ErrInvalidState)
	}
	c.Status = models.StatusSent
	c.SentAt = &sentAt
	return nil
}

func clone(c *models.Contract) *models.Contract {
	cp := *c
	cp.Marks = slices.Clone(c.Marks)
	cp.Recipients = slices.Clone(c.Recipients)
	if c.SentAt != nil {
		t := *c.SentAt
		cp.SentAt = &t
	}
	return &cp
}
