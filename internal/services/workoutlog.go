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
	"github.com/fitsyncapp/fitsync/internal/repositories/workoutlogs"
	"github.com/fitsyncapp/fitsync/internal/store"
)

// WorkoutLogService records completed sessions. Logs are immutable and
// append-only: there is no update or delete surface.
type WorkoutLogService interface {
	// Load returns all logs, newest first by start time.
	Load(ctx context.Context) ([]models.WorkoutLog, error)

	// Save persists the completed-session log locally as one atomic unit,
	// attempts the remote create, and returns the refreshed local list.
	Save(ctx context.Context, l models.WorkoutLog) ([]models.WorkoutLog, error)
}

type workoutLogService struct {
	client api.Client
	store  *store.Store
	logger logging.Logger
}

func NewWorkoutLogService(client api.Client, st *store.Store, logger logging.Logger) WorkoutLogService {
	return &workoutLogService{client: client, store: st, logger: logger.With("service", "workoutlog")}
}

func (s *workoutLogService) Load(ctx context.Context) ([]models.WorkoutLog, error) {
	return s.store.Logs.GetAll(ctx)
}

func (s *workoutLogService) Save(ctx context.Context, l models.WorkoutLog) ([]models.WorkoutLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Date == "" && !l.StartedAt.IsZero() {
		l.Date = l.StartedAt.UTC().Format(time.DateOnly)
	}

	err := dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return workoutlogs.NewSQLiteRepository(tx).Save(ctx, &l)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save workout log: %w", err)
	}

	pushOrEnqueue(ctx, s.client, s.store, s.logger, models.CreateLog{Log: l},
		func(ctx context.Context) error { return s.client.CreateLog(ctx, &l) })

	return s.store.Logs.GetAll(ctx)
}
