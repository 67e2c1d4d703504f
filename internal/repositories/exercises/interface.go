package exercises

import (
	"context"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// Repository caches the read-mostly exercise catalog for offline browsing.
// The client never mutates catalog entries, so there is no per-row delete and
// the catalog takes no part in the outbox or the sync merge.
type Repository interface {
	// ReplaceAll swaps the whole cached catalog for the given entries.
	ReplaceAll(ctx context.Context, list []models.Exercise) error

	// GetAll returns the cached catalog ordered by name.
	GetAll(ctx context.Context) ([]models.Exercise, error)

	// Clear empties the cache.
	Clear(ctx context.Context) error
}
