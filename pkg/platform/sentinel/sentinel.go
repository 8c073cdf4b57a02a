package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: row does not exist
//   - ErrConflict: a unique constraint (tax number, contract id) was hit
//   - ErrInvalidState: row is in the wrong state for the operation (contract already sent)
//   - ErrUnavailable: backing service (database, broker, redis) is unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
