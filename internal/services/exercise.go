package services

import (
	"context"
	"fmt"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/dbx"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/models"
	"github.com/fitsyncapp/fitsync/internal/repositories/exercises"
	"github.com/fitsyncapp/fitsync/internal/store"
)

// ExerciseService serves the read-only exercise catalog. The catalog is
// reference data: it is cached for offline browsing but never mutated by the
// client, so it takes no part in the outbox or the sync merge.
type ExerciseService interface {
	// Load returns the cached catalog ordered by name.
	Load(ctx context.Context) ([]models.Exercise, error)

	// Refresh fetches the catalog from the server and replaces the cache.
	// Best-effort: when the server is unreachable the stale cache stands
	// and the error is returned for the caller to ignore or surface.
	Refresh(ctx context.Context) ([]models.Exercise, error)
}

type exerciseService struct {
	client api.Client
	store  *store.Store
	logger logging.Logger
}

func NewExerciseService(client api.Client, st *store.Store, logger logging.Logger) ExerciseService {
	return &exerciseService{client: client, store: st, logger: logger.With("service", "exercise")}
}

func (s *exerciseService) Load(ctx context.Context) ([]models.Exercise, error) {
	return s.store.Exercises.GetAll(ctx)
}

func (s *exerciseService) Refresh(ctx context.Context) ([]models.Exercise, error) {
	list, err := s.client.GetExercises(ctx)
	if err != nil {
		s.logger.Debug(ctx, "catalog refresh failed, keeping cache", "error", err)
		return nil, fmt.Errorf("failed to fetch exercise catalog: %w", err)
	}

	// One transaction: a reader never sees the catalog half-swapped.
	err = dbx.WithTx(ctx, s.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return exercises.NewSQLiteRepository(tx).ReplaceAll(ctx, list)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cache exercise catalog: %w", err)
	}

	return s.store.Exercises.GetAll(ctx)
}
