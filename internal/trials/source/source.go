// Package source fetches the complete trial dataset a view works on.
//
// A Source is read-only and returns the whole collection in upstream order;
// no filtering or sorting is pushed down. Implementations categorise
// failures with FetchError so callers can report them consistently.
package source

import (
	"context"

	"trialfinder/internal/trials/models"
)

//go:generate mockgen -source=source.go -destination=mocks/source-mocks.go -package=mocks Source

// Source returns the full trial collection.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Fetch returns every trial, in upstream order.
	Fetch(ctx context.Context) ([]models.Trial, error)
}
