package handler

import "patentdesk/internal/firm/models"

type FirmListResponse struct {
	Firms []*models.Firm `json:"firms"`
	Count int            `json:"count"`
}
