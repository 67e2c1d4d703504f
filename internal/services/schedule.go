package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/dbx"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/models"
	"github.com/fitsyncapp/fitsync/internal/repositories/schedule"
	"github.com/fitsyncapp/fitsync/internal/store"
)

// ScheduleService manages calendar entries.
type ScheduleService interface {
	// Load returns all scheduled workouts ordered by date, then time.
	Load(ctx context.Context) ([]models.ScheduledWorkout, error)

	// Add persists the entry locally, attempts the remote create, and
	// returns the refreshed local list.
	Add(ctx context.Context, sw models.ScheduledWorkout) ([]models.ScheduledWorkout, error)

	// Delete removes the entry locally, attempts the remote delete, and
	// returns the refreshed local list.
	Delete(ctx context.Context, id string) ([]models.ScheduledWorkout, error)
}

type scheduleService struct {
	client api.Client
	store  *store.Store
	logger logging.Logger
}

func NewScheduleService(client api.Client, st *store.Store, logger logging.Logger) ScheduleService {
	return &scheduleService{client: client, store: st, logger: logger.With("service", "schedule")}
}

func (s *scheduleService) Load(ctx context.Context) ([]models.ScheduledWorkout, error) {
	return s.store.Schedule.GetAll(ctx)
}

func (s *scheduleService) Add(ctx context.Context, sw models.ScheduledWorkout) ([]models.ScheduledWorkout, error) {
	if sw.ID == "" {
		sw.ID = uuid.NewString()
	}

	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return schedule.NewSQLiteRepository(tx).Save(ctx, &sw)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save scheduled workout: %w", err)
	}

	pushOrEnqueue(ctx, s.client, s.store, s.logger, models.CreateScheduled{Scheduled: sw},
		func(ctx context.Context) error { return s.client.CreateScheduled(ctx, &sw) })

	return s.store.Schedule.GetAll(ctx)
}

func (s *scheduleService) Delete(ctx context.Context, id string) ([]models.ScheduledWorkout, error) {
	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return schedule.NewSQLiteRepository(tx).Delete(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete scheduled workout: %w", err)
	}

	pushOrEnqueue(ctx, s.client, s.store, s.logger, models.DeleteScheduled{ID: id},
		func(ctx context.Context) error { return s.client.DeleteScheduled(ctx, id) })

	return s.store.Schedule.GetAll(ctx)
}
