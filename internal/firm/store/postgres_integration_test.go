//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"patentdesk/internal/firm/models"
	"patentdesk/internal/firm/store"
	"patentdesk/pkg/platform/sentinel"
	"patentdesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "contracts", "firms"))
}

func newFirm(title, tax string) *models.Firm {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Firm{ID: uuid.New(), CorporateTitle: title, TaxNumber: tax, CreatedAt: now, UpdatedAt: now}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	f := newFirm("Ferko d.o.o.", "12345678901")
	f.Email = "office@ferko.hr"
	s.Require().NoError(s.store.Create(ctx, f))

	found, err := s.store.FindByID(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(f.CorporateTitle, found.CorporateTitle)
	s.Equal(f.TaxNumber, found.TaxNumber)
	s.True(f.CreatedAt.Equal(found.CreatedAt))

	f.City = "Split"
	s.Require().NoError(s.store.Update(ctx, f))
	hits, err := s.store.Search(ctx, "spl", 10)
	s.Require().NoError(err)
	s.Len(hits, 1)

	s.Require().NoError(s.store.Delete(ctx, f.ID))
	_, err = s.store.FindByID(ctx, f.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentTaxNumber verifies the unique index lets exactly one insert win.
func (s *PostgresStoreSuite) TestConcurrentTaxNumber() {
	ctx := context.Background()
	const goroutines = 20
	var wg sync.WaitGroup
	var ok, conflict atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newFirm("Racer", "55555"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflict.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), ok.Load())
	s.Equal(int32(goroutines-1), conflict.Load())
}

func (s *PostgresStoreSuite) TestEmptyTaxNumbersStoredAsNull() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newFirm("One", "")))
	s.Require().NoError(s.store.Create(ctx, newFirm("Two", "")))

	all, err := s.store.List(ctx, 10, 0)
	s.Require().NoError(err)
	s.Len(all, 2)
}
