package workouts

import (
	"context"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// Repository describes persistence operations for Workout entities.
//
// Save and Delete touch the workout header and its exercise rows as a unit;
// bind the repository to a transaction (dbx.WithTx) when atomicity matters.
type Repository interface {
	// Save is an idempotent upsert: it replaces any existing workout with
	// the same id, exercise list included.
	Save(ctx context.Context, w *models.Workout) error

	// GetAll returns all workouts, newest first.
	GetAll(ctx context.Context) ([]models.Workout, error)

	// Delete removes the workout and its exercise rows. Deleting a
	// nonexistent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Clear removes every workout. Used by the session boundary wipe.
	Clear(ctx context.Context) error
}
