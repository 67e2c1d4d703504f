// Package services contains the application services exposed to the UI layer:
// per-entity local-first CRUD, exercise catalog refresh, and the session
// boundary. Every mutation lands in the local store first; the remote call is
// best-effort and a failed attempt degrades into an outbox entry, never into
// an error for the caller.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/dbx"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/models"
	"github.com/fitsyncapp/fitsync/internal/repositories/workouts"
	"github.com/fitsyncapp/fitsync/internal/store"
)

// WorkoutService manages workout templates.
type WorkoutService interface {
	// Load returns all locally stored workouts, newest first.
	Load(ctx context.Context) ([]models.Workout, error)

	// Add persists the workout locally, attempts the remote create, and
	// returns the refreshed local list. A failed remote attempt is queued,
	// not reported.
	Add(ctx context.Context, w models.Workout) ([]models.Workout, error)

	// Delete removes the workout locally, attempts the remote delete, and
	// returns the refreshed local list.
	Delete(ctx context.Context, id string) ([]models.Workout, error)
}

type workoutService struct {
	client api.Client
	store  *store.Store
	logger logging.Logger
}

func NewWorkoutService(client api.Client, st *store.Store, logger logging.Logger) WorkoutService {
	return &workoutService{client: client, store: st, logger: logger.With("service", "workout")}
}

func (s *workoutService) Load(ctx context.Context) ([]models.Workout, error) {
	return s.store.Workouts.GetAll(ctx)
}

func (s *workoutService) Add(ctx context.Context, w models.Workout) ([]models.Workout, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return workouts.NewSQLiteRepository(tx).Save(ctx, &w)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save workout: %w", err)
	}

	pushOrEnqueue(ctx, s.client, s.store, s.logger, models.CreateWorkout{Workout: w},
		func(ctx context.Context) error { return s.client.CreateWorkout(ctx, &w) })

	return s.store.Workouts.GetAll(ctx)
}

func (s *workoutService) Delete(ctx context.Context, id string) ([]models.Workout, error) {
	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return workouts.NewSQLiteRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete workout: %w", err)
	}

	pushOrEnqueue(ctx, s.client, s.store, s.logger, models.DeleteWorkout{ID: id},
		func(ctx context.Context) error { return s.client.DeleteWorkout(ctx, id) })

	return s.store.Workouts.GetAll(ctx)
}

// pushOrEnqueue attempts the immediate remote write and falls back to the
// outbox. Without a session the attempt is skipped entirely. A mutation that
// reaches neither the server nor the queue is the only case worth an error
// log: the local write already succeeded and the change would otherwise be
// lost to sync.
func pushOrEnqueue(ctx context.Context, client api.Client, st *store.Store, logger logging.Logger, action models.Action, push func(ctx context.Context) error) {
	if client.Token() != "" {
		err := push(ctx)
		if err == nil {
			return
		}
		logger.Debug(ctx, "remote write failed, queueing",
			"entity", string(action.Entity()), "id", action.EntityID(), "error", err)
	}

	if err := st.Outbox.Enqueue(ctx, action); err != nil {
		logger.Error(ctx, "failed to enqueue action",
			"entity", string(action.Entity()), "id", action.EntityID(), "error", err)
	}
}
