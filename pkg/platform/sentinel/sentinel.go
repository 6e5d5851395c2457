package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Sources, caches, and view
// registries return these (optionally wrapped) so services can translate them
// into domain errors.
//
//   - ErrNotFound: view or cache entry does not exist
//   - ErrInvalidState: view is in the wrong lifecycle state for the operation
//   - ErrUnavailable: upstream data source temporarily unavailable
//
// For validation errors (bad criteria, unknown sort key), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
