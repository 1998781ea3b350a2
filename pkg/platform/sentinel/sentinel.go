package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and publishers return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: report or cache entry does not exist
//   - ErrConflict: a report with the same id was already archived
//   - ErrUnavailable: backing service temporarily unreachable
//
// For bad input, use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
