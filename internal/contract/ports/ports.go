package ports

import "github.com/google/uuid"

// FirmProfile is the part of a firm record a contract needs.
type FirmProfile struct {
	ID        uuid.UUID
	Title     string
	TaxNumber string
	Email     string
	Address   string
	City      string
}

// EmailRequest asks the mail pipeline to deliver a contract.
type EmailRequest struct {
	ContractID uuid.UUID
	Recipients []string
	Subject    string
	Body       string
}
