package schedule

import (
	"context"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// Repository describes persistence operations for ScheduledWorkout entities.
type Repository interface {
	// Save is an idempotent upsert by id.
	Save(ctx context.Context, s *models.ScheduledWorkout) error

	// GetAll returns all scheduled workouts ordered by date, then time.
	GetAll(ctx context.Context) ([]models.ScheduledWorkout, error)

	// Delete removes the entry; nonexistent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Clear removes every entry. Used by the session boundary wipe.
	Clear(ctx context.Context) error
}
