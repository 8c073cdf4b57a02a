package ports

import "context"

// Firm is the part of a firm record the watch report matches on.
type Firm struct {
	ID    string
	Title string
}

// FirmDirectory lists the agency's firm records for the watch report.
// Defined here so bulletin does not import the firm module.
type FirmDirectory interface {
	ListFirms(ctx context.Context) ([]Firm, error)
}
