package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/email"
	pstrings "patentdesk/pkg/platform/strings"
)

// ServiceKind is the agency service a contract covers.
type ServiceKind string

const (
	ServiceTrademarkRegistration ServiceKind = "trademark_registration"
	ServicePatentApplication     ServiceKind = "patent_application"
	ServiceRenewal               ServiceKind = "renewal"
	ServiceOpposition            ServiceKind = "opposition"
)

func (k ServiceKind) IsValid() bool {
	switch k {
	case ServiceTrademarkRegistration, ServicePatentApplication, ServiceRenewal, ServiceOpposition:
		return true
	}
	return false
}

// Title is the human readable service name used in rendered contracts.
func (k ServiceKind) Title() string {
	switch k {
	case ServiceTrademarkRegistration:
		return "Trademark Registration"
	case ServicePatentApplication:
		return "Patent Application"
	case ServiceRenewal:
		return "Trademark Renewal"
	case ServiceOpposition:
		return "Bulletin Opposition"
	}
	return string(k)
}

type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
)

const (
	maxMarks      = 50
	maxRecipients = 20
)

// Contract is a service agreement rendered for a firm and mailed to its
// recipients.
//
// Invariants:
//   - Service is one of the known service kinds
//   - Fee is positive and expressed in minor units of Currency
//   - Marks and Recipients are non-empty; recipients are lower-cased and unique
//   - Status moves from draft to sent exactly once; SentAt is set iff sent
type Contract struct {
	ID         uuid.UUID   `json:"id"`
	FirmID     uuid.UUID   `json:"firm_id"`
	Service    ServiceKind `json:"service"`
	Marks      []string    `json:"marks"`
	Fee        int64       `json:"fee"`
	Currency   string      `json:"currency"`
	Recipients []string    `json:"recipients"`
	Body       string      `json:"body"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	SentAt     *time.Time  `json:"sent_at,omitempty"`
}

// Terms are the negotiated parts of a contract before rendering.
type Terms struct {
	FirmID     uuid.UUID
	Service    ServiceKind
	Marks      []string
	Fee        int64
	Currency   string
	Recipients []string
}

// Normalize trims marks, lower-cases recipients, drops duplicates and
// upper-cases the currency code.
func (t *Terms) Normalize() {
	t.Marks = pstrings.DedupeAndTrim(t.Marks)
	t.Recipients = pstrings.DedupeAndTrimLower(t.Recipients)
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
}

func (t *Terms) Validate() error {
	if t.FirmID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "firm_id is required")
	}
	if !t.Service.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown service")
	}
	if len(t.Marks) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one mark is required")
	}
	if len(t.Marks) > maxMarks {
		return dErrors.New(dErrors.CodeValidation, "too many marks")
	}
	if t.Fee <= 0 {
		return dErrors.New(dErrors.CodeValidation, "fee must be positive")
	}
	if !validCurrency(t.Currency) {
		return dErrors.New(dErrors.CodeValidation, "currency must be a three letter code")
	}
	if len(t.Recipients) > maxRecipients {
		return dErrors.New(dErrors.CodeValidation, "too many recipients")
	}
	for _, r := range t.Recipients {
		if !email.Valid(r) {
			return dErrors.New(dErrors.CodeValidation, "recipient must be an email address")
		}
	}
	return nil
}

// NewDraft builds a draft contract from validated terms and a rendered body.
func NewDraft(id uuid.UUID, t Terms, body string, now time.Time) (*Contract, error) {
	if len(t.Recipients) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract needs at least one recipient")
	}
	if strings.TrimSpace(body) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract body is empty")
	}
	return &Contract{
		ID:         id,
		FirmID:     t.FirmID,
		Service:    t.Service,
		Marks:      t.Marks,
		Fee:        t.Fee,
		Currency:   t.Currency,
		Recipients: t.Recipients,
		Body:       body,
		Status:     StatusDraft,
		CreatedAt:  now,
	}, nil
}

func (c *Contract) IsDraft() bool {
	return c.Status == StatusDraft
}

// MarkSent moves a draft to sent.
func (c *Contract) MarkSent(now time.Time) error {
	if !c.IsDraft() {
		return dErrors.New(dErrors.CodeConflict, "contract has already been sent")
	}
	c.Status = StatusSent
	c.SentAt = &now
	return nil
}

// Subject is the email subject line for the contract.
func (c *Contract) Subject() string {
	return c.Service.Title() + " contract: " + strings.Join(c.Marks, ", ")
}

func validCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
