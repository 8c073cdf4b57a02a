package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"patentdesk/internal/firm/models"
	"patentdesk/internal/platform/postgres"
	"patentdesk/internal/table"
)

const firmColumns = `id, corporate_title, COALESCE(tax_number, ''), contact_name, email, phone, city, address, notes, created_at, updated_at`

// PostgresStore persists firms in the firms table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f *models.Firm) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO firms (id, corporate_title, tax_number, contact_name, email, phone, city, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		f.ID, f.CorporateTitle, postgres.NullString(f.TaxNumber), f.ContactName, f.Email,
		f.Phone, f.City, f.Address, f.Notes, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("insert firm: %w", ErrConflict)
		}
		return fmt.Errorf("insert firm: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, f *models.Firm) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE firms SET corporate_title = $2, tax_number = $3, contact_name = $4, email = $5,
			phone = $6, city = $7, address = $8, notes = $9, updated_at = $10
		WHERE id = $1`,
		f.ID, f.CorporateTitle, postgres.NullString(f.TaxNumber), f.ContactName, f.Email,
		f.Phone, f.City, f.Address, f.Notes, f.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("update firm: %w", ErrConflict)
		}
		return fmt.Errorf("update firm: %w", err)
	}
	return expectOne(res, "update firm")
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM firms WHERE id = $1`, id)
	if postgres.IsForeignKeyViolation(err) {
		return fmt.Errorf("delete firm %s: %w", id, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete firm: %w", err)
	}
	return expectOne(res, "delete firm")
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Firm, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+firmColumns+` FROM firms WHERE id = $1`, id)
	f, err := scanFirm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find firm: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find firm: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.Firm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+firmColumns+` FROM firms
		ORDER BY lower(corporate_title), id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list firms: %w", err)
	}
	return collect(rows)
}

// Search matches term against title, tax number, contact and city.
func (s *PostgresStore) Search(ctx context.Context, term string, limit int) ([]*models.Firm, error) {
	pattern := table.ContainsPattern(term)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+firmColumns+` FROM firms
		WHERE corporate_title ILIKE $1 OR tax_number ILIKE $1 OR contact_name ILIKE $1 OR city ILIKE $1
		ORDER BY lower(corporate_title), id
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search firms: %w", err)
	}
	return collect(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFirm(sc scanner) (*models.Firm, error) {
	var f models.Firm
	err := sc.Scan(&f.ID, &f.CorporateTitle, &f.TaxNumber, &f.ContactName, &f.Email,
		&f.Phone, &f.City, &f.Address, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func collect(rows *sql.Rows) ([]*models.Firm, error) {
	defer rows.Close()
	out := []*models.Firm{}
	for rows.Next() {
		f, err := scanFirm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan firm: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firms: %w", err)
	}
	return out, nil
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
