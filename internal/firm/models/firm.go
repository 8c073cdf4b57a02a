package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "patentdesk/pkg/domain-errors"
)

const maxTitleLength = 256

// Firm is a client company of the agency.
//
// Invariants:
//   - CorporateTitle is non-empty and at most 256 characters
//   - Email, when set, contains "@"
//   - TaxNumber, when set, is unique across firms
type Firm struct {
	ID             uuid.UUID `json:"id"`
	CorporateTitle string    `json:"corporate_title"`
	TaxNumber      string    `json:"tax_number,omitempty"`
	ContactName    string    `json:"contact_name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	City           string    `json:"city,omitempty"`
	Address        string    `json:"address,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Details are the editable fields of a firm.
type Details struct {
	CorporateTitle string
	TaxNumber      string
	ContactName    string
	Email          string
	Phone          string
	City           string
	Address        string
	Notes          string
}

// NewFirm builds a firm and checks its invariants.
func NewFirm(id uuid.UUID, d Details, now time.Time) (*Firm, error) {
	f := &Firm{ID: id, CreatedAt: now}
	if err := f.Apply(d, now); err != nil {
		return nil, err
	}
	return f, nil
}

// Apply replaces the editable fields after checking invariants. The firm is
// left untouched on error.
func (f *Firm) Apply(d Details, now time.Time) error {
	d = d.normalized()
	if err := d.check(); err != nil {
		return err
	}
	f.CorporateTitle = d.CorporateTitle
	f.TaxNumber = d.TaxNumber
	f.ContactName = d.ContactName
	f.Email = d.Email
	f.Phone = d.Phone
	f.City = d.City
	f.Address = d.Address
	f.Notes = d.Notes
	f.UpdatedAt = now
	return nil
}

// Details returns the editable fields.
func (f *Firm) Details() Details {
	return Details{
		CorporateTitle: f.CorporateTitle,
		TaxNumber:      f.TaxNumber,
		ContactName:    f.ContactName,
		Email:          f.Email,
		Phone:          f.Phone,
		City:           f.City,
		Address:        f.Address,
		Notes:          f.Notes,
	}
}

func (d Details) normalized() Details {
	d.CorporateTitle = strings.TrimSpace(d.CorporateTitle)
	d.TaxNumber = strings.TrimSpace(d.TaxNumber)
	d.ContactName = strings.TrimSpace(d.ContactName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	d.City = strings.TrimSpace(d.City)
	d.Address = strings.TrimSpace(d.Address)
	d.Notes = strings.TrimSpace(d.Notes)
	return d
}

func (d Details) check() error {
	if d.CorporateTitle == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "corporate title is required")
	}
	if utf8.RuneCountInString(d.CorporateTitle) > maxTitleLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "corporate title must be at most 256 characters")
	}
	if d.Email != "" && !strings.Contains(d.Email, "@") {
		return dErrors.New(dErrors.CodeInvariantViolation, "email must contain @")
	}
	return nil
}

// Matches reports whether term appears in the title, tax number, contact or
// city, ignoring case.
func (f *Firm) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, v := range []string{f.CorporateTitle, f.TaxNumber, f.ContactName, f.City} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
