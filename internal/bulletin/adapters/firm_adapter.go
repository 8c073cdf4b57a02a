package adapters

import (
	"context"

	"patentdesk/internal/bulletin/ports"
	firmService "patentdesk/internal/firm/service"
)

// FirmAdapter implements ports.FirmDirectory on top of the firm service.
type FirmAdapter struct {
	firms *firmService.Service
}

func NewFirmAdapter(firms *firmService.Service) ports.FirmDirectory {
	return &FirmAdapter{firms: firms}
}

func (a *FirmAdapter) ListFirms(ctx context.Context) ([]ports.Firm, error) {
	all, err := a.firms.Titles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.Firm, 0, len(all))
	for _, f := range all {
		out = append(out, ports.Firm{ID: f.ID.String(), Title: f.CorporateTitle})
	}
	return out, nil
}
