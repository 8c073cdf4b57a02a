package adapters

import (
	"context"

	"github.com/google/uuid"

	"patentdesk/internal/contract/ports"
	firmService "patentdesk/internal/firm/service"
)

// FirmAdapter resolves contract parties through the firm service.
type FirmAdapter struct {
	firms *firmService.Service
}

func NewFirmAdapter(firms *firmService.Service) *FirmAdapter {
	return &FirmAdapter{firms: firms}
}

func (a *FirmAdapter) FirmProfile(ctx context.Context, id uuid.UUID) (*ports.FirmProfile, error) {
	f, err := a.firms.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.FirmProfile{
		ID:        f.ID,
		Title:     f.CorporateTitle,
		TaxNumber: f.TaxNumber,
		Email:     f.Email,
		Address:   f.Address,
		City:      f.City,
	}, nil
}
