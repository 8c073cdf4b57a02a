package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"patentdesk/internal/contract/models"
	"patentdesk/internal/platform/postgres"
	"patentdesk/pkg/platform/sentinel"
)

const contractColumns = `id, firm_id, service, marks, fee, currency, recipients, body, status, created_at, sent_at`

// PostgresStore persists contracts in the contracts table. Marks and
// recipients are TEXT[] columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Contract) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (`+contractColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.FirmID, string(c.Service), pq.Array(c.Marks), c.Fee, c.Currency,
		pq.Array(c.Recipients), c.Body, string(c.Status), c.CreatedAt, c.SentAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("insert contract: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find contract: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListByFirm(ctx context.Context, firmID uuid.UUID) ([]*models.Contract, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE firm_id = $1 ORDER BY created_at DESC`, firmID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByFirm(ctx context.Context, firmID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM contracts WHERE firm_id = $1`, firmID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contracts: %w", err)
	}
	return n, nil
}

// MarkSent only updates drafts; a missing row and a sent row are told apart
// with a follow-up existence check.
func (s *PostgresStore) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contracts SET status = $2, sent_at = $3 WHERE id = $1 AND status = $4`,
		id, string(models.StatusSent), sentAt, string(models.StatusDraft))
	if err != nil {
		return fmt.Errorf("mark contract sent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark contract sent: %w", err)
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM contracts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("mark contract sent: %w", err)
	}
	if !exists {
		return fmt.Errorf("mark contract sent: %w", sentinel.ErrNotFound)
	}
	return fmt.Errorf("mark contract sent: %w", sentinel.ErrInvalidState)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContract(row scanner) (*models.Contract, error) {
	var (
		c       models.Contract
		service string
		status  string
		sentAt  sql.NullTime
	)
	err := row.Scan(&c.ID, &c.FirmID, &service, pq.Array(&c.Marks), &c.Fee, &c.Currency,
		pq.Array(&c.Recipients), &c.Body, &status, &c.CreatedAt, &sentAt)
	if err != nil {
		return nil, err
	}
	c.Service = models.ServiceKind(service)
	c.Status = models.Status(status)
	if sentAt.Valid {
		t := sentAt.Time
		c.SentAt = &t
	}
	return &c, nil
}
