package workoutlogs

import (
	"context"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// Repository describes persistence operations for WorkoutLog entities.
//
// A log and its completed exercises/sets are written as one unit; bind the
// repository to a transaction (dbx.WithTx) so a reader never observes a
// partially written log.
type Repository interface {
	// Save is an idempotent upsert replacing the log and all nested rows.
	Save(ctx context.Context, l *models.WorkoutLog) error

	// GetAll returns all logs, newest first by start time.
	GetAll(ctx context.Context) ([]models.WorkoutLog, error)

	// Delete removes the log and nested rows; nonexistent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Clear removes every log. Used by the session boundary wipe.
	Clear(ctx context.Context) error
}
