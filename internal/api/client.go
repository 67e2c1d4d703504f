// Package api implements the HTTP/JSON client for the remote authority: the
// backend REST API owning the user's workouts, logs, schedule, and catalog.
package api

import (
	"context"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// Client is the remote authority as seen by the services and the sync
// coordinator. All calls are bounded by the configured request timeout; any
// transport failure maps onto ErrUnavailable or ErrUnauthorized.
type Client interface {
	// Auth.
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Me(ctx context.Context) (*User, error)

	// SetToken installs a bearer token (used for silent session restore);
	// Token returns the current one, empty when unauthenticated.
	SetToken(token string)
	Token() string

	// Per-entity CRUD, used for immediate best-effort writes.
	GetWorkouts(ctx context.Context) ([]models.Workout, error)
	CreateWorkout(ctx context.Context, w *models.Workout) error
	DeleteWorkout(ctx context.Context, id string) error
	GetLogs(ctx context.Context) ([]models.WorkoutLog, error)
	CreateLog(ctx context.Context, l *models.WorkoutLog) error
	GetScheduled(ctx context.Context) ([]models.ScheduledWorkout, error)
	CreateScheduled(ctx context.Context, s *models.ScheduledWorkout) error
	DeleteScheduled(ctx context.Context, id string) error

	// Exercise catalog refresh.
	GetExercises(ctx context.Context) ([]models.Exercise, error)

	// Sync ships the outbox with the current watermark and returns the
	// authoritative reply.
	Sync(ctx context.Context, req SyncRequest) (*SyncResponse, error)
}
