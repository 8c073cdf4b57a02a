package handler

import (
	"strings"

	"github.com/google/uuid"

	"patentdesk/internal/contract/models"
	dErrors "patentdesk/pkg/domain-errors"
)

// GenerateRequest is the body of POST /admin/contracts.
type GenerateRequest struct {
	FirmID     string   `json:"firm_id"`
	Service    string   `json:"service"`
	Marks      []string `json:"marks"`
	Fee        int64    `json:"fee"`
	Currency   string   `json:"currency"`
	Recipients []string `json:"recipients"`

	firmID uuid.UUID
}

func (r *GenerateRequest) Normalize() {
	r.FirmID = strings.TrimSpace(r.FirmID)
	r.Service = strings.ToLower(strings.TrimSpace(r.Service))
}

func (r *GenerateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	id, err := uuid.Parse(r.FirmID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "firm_id must be a uuid")
	}
	r.firmID = id
	if r.Service == "" {
		return dErrors.New(dErrors.CodeValidation, "service is required")
	}
	return nil
}

func (r *GenerateRequest) Terms() models.Terms {
	return models.Terms{
		FirmID:     r.firmID,
		Service:    models.ServiceKind(r.Service),
		Marks:      r.Marks,
		Fee:        r.Fee,
		Currency:   r.Currency,
		Recipients: r.Recipients,
	}
}
