package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"patentdesk/internal/firm/models"
)

// InMemory is a map-backed firm store for tests and local runs.
type InMemory struct {
	mu    sync.RWMutex
	firms map[uuid.UUID]*models.Firm
}

func NewInMemory() *InMemory {
	return &InMemory{firms: make(map[uuid.UUID]*models.Firm)}
}

func (s *InMemory) Create(_ context.Context, f *models.Firm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.firms[f.ID]; ok {
		return fmt.Errorf("firm %s: %w", f.ID, ErrConflict)
	}
	if s.taxNumberTaken(f) {
		return fmt.Errorf("tax number %s: %w", f.TaxNumber, ErrConflict)
	}
	c := *f
	s.firms[f.ID] = &c
	return nil
}

func (s *InMemory) Update(_ context.Context, f *models.Firm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.firms[f.ID]; !ok {
		return fmt.Errorf("firm %s: %w", f.ID, ErrNotFound)
	}
	if s.taxNumberTaken(f) {
		return fmt.Errorf("tax number %s: %w", f.TaxNumber, ErrConflict)
	}
	c := *f
	s.firms[f.ID] = &c
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.firms[id]; !ok {
		return fmt.Errorf("firm %s: %w", id, ErrNotFound)
	}
	delete(s.firms, id)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Firm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.firms[id]
	if !ok {
		return nil, fmt.Errorf("firm %s: %w", id, ErrNotFound)
	}
	c := *f
	return &c, nil
}

// List returns firms ordered by corporate title, then id.
func (s *InMemory) List(_ context.Context, limit, offset int) ([]*models.Firm, error) {
	return s.page(func(*models.Firm) bool { return true }, limit, offset), nil
}

func (s *InMemory) Search(_ context.Context, term string, limit int) ([]*models.Firm, error) {
	return s.page(func(f *models.Firm) bool { return f.Matches(term) }, limit, 0), nil
}

func (s *InMemory) page(keep func(*models.Firm) bool, limit, offset int) []*models.Firm {
	s.mu.RLock()
	out := make([]*models.Firm, 0, len(s.firms))
	for _, f := range s.firms {
		if keep(f) {
			c := *f
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *models.Firm) int {
		if c := strings.Compare(strings.ToLower(a.CorporateTitle), strings.ToLower(b.CorporateTitle)); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if offset >= len(out) {
		return []*models.Firm{}
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// taxNumberTaken must be called with the lock held.
func (s *InMemory) taxNumberTaken(f *models.Firm) bool {
	if f.TaxNumber == "" {
		return false
	}
	for id, other := range s.firms {
		if id != f.ID && other.TaxNumber == f.TaxNumber {
			return true
		}
	}
	return false
}
