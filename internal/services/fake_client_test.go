package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/models"
	"github.com/fitsyncapp/fitsync/internal/store"
)

// fakeClient is an in-memory api.Client. Setting fail makes every entity and
// sync call return that error, simulating an unreachable or failing server.
type fakeClient struct {
	mu    sync.Mutex
	token string
	fail  error

	loginSession    *api.Session
	loginErr        error
	meUser          *api.User
	meErr           error
	exercises       []models.Exercise
	createdWorkouts []models.Workout
	deletedWorkouts []string
	createdLogs     []models.WorkoutLog
	createdSched    []models.ScheduledWorkout
	deletedSched    []string
}

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeClient) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.SetToken(f.loginSession.Token)
	return f.loginSession, nil
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (*api.Session, error) {
	return f.Login(ctx, email, password)
}

func (f *fakeClient) Me(ctx context.Context) (*api.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.meUser, nil
}

func (f *fakeClient) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	return nil, f.fail
}

func (f *fakeClient) CreateWorkout(ctx context.Context, w *models.Workout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.createdWorkouts = append(f.createdWorkouts, *w)
	return nil
}

func (f *fakeClient) DeleteWorkout(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.deletedWorkouts = append(f.deletedWorkouts, id)
	return nil
}

func (f *fakeClient) GetLogs(ctx context.Context) ([]models.WorkoutLog, error) {
	return nil, f.fail
}

func (f *fakeClient) CreateLog(ctx context.Context, l *models.WorkoutLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.createdLogs = append(f.createdLogs, *l)
	return nil
}

func (f *fakeClient) GetScheduled(ctx context.Context) ([]models.ScheduledWorkout, error) {
	return nil, f.fail
}

func (f *fakeClient) CreateScheduled(ctx context.Context, s *models.ScheduledWorkout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.createdSched = append(f.createdSched, *s)
	return nil
}

func (f *fakeClient) DeleteScheduled(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.deletedSched = append(f.deletedSched, id)
	return nil
}

func (f *fakeClient) GetExercises(ctx context.Context) ([]models.Exercise, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.exercises, nil
}

func (f *fakeClient) Sync(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &api.SyncResponse{Processed: len(req.Actions)}, nil
}

var _ api.Client = (*fakeClient)(nil)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "fitsync_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
