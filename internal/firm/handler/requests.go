package handler

import (
	"strings"
	"unicode/utf8"

	"patentdesk/internal/firm/models"
	dErrors "patentdesk/pkg/domain-errors"
)

// FirmRequest is the body of POST /admin/firms and PUT /admin/firms/{id}.
type FirmRequest struct {
	CorporateTitle string `json:"corporate_title"`
	TaxNumber      string `json:"tax_number"`
	ContactName    string `json:"contact_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	City           string `json:"city"`
	Address        string `json:"address"`
	Notes          string `json:"notes"`
}

func (r *FirmRequest) Normalize() {
	r.CorporateTitle = strings.TrimSpace(r.CorporateTitle)
	r.TaxNumber = strings.TrimSpace(r.TaxNumber)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *FirmRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.CorporateTitle == "" {
		return dErrors.New(dErrors.CodeValidation, "corporate_title is required")
	}
	if utf8.RuneCountInString(r.Notes) > 4000 {
		return dErrors.New(dErrors.CodeValidation, "notes must be at most 4000 characters")
	}
	if utf8.RuneCountInString(r.TaxNumber) > 32 {
		return dErrors.New(dErrors.CodeValidation, "tax_number must be at most 32 characters")
	}
	return nil
}

func (r *FirmRequest) Details() models.Details {
	return models.Details{
		CorporateTitle: r.CorporateTitle,
		TaxNumber:      r.TaxNumber,
		ContactName:    r.ContactName,
		Email:          r.Email,
		Phone:          r.Phone,
		City:           r.City,
		Address:        r.Address,
		Notes:          r.Notes,
	}
}
