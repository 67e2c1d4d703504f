package syncer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/models"
	"github.com/fitsyncapp/fitsync/internal/repositories/metadata"
	"github.com/fitsyncapp/fitsync/internal/services"
	"github.com/fitsyncapp/fitsync/internal/store"
)

var errNotUsed = errors.New("not used in this test")

// fakeClient implements api.Client for coordinator tests; only Sync and the
// token accessors matter here.
type fakeClient struct {
	mu       sync.Mutex
	token    string
	syncFn   func(req api.SyncRequest) (*api.SyncResponse, error)
	requests []api.SyncRequest
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

func (f *fakeClient) Sync(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.syncFn(req)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*api.Session, error) {
	return nil, errNotUsed
}
func (f *fakeClient) Register(ctx context.Context, name, email, password string) (*api.Session, error) {
	return nil, errNotUsed
}
func (f *fakeClient) Me(ctx context.Context) (*api.User, error) { return nil, errNotUsed }
func (f *fakeClient) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	return nil, errNotUsed
}
func (f *fakeClient) CreateWorkout(ctx context.Context, w *models.Workout) error { return errNotUsed }
func (f *fakeClient) DeleteWorkout(ctx context.Context, id string) error         { return errNotUsed }
func (f *fakeClient) GetLogs(ctx context.Context) ([]models.WorkoutLog, error) {
	return nil, errNotUsed
}
func (f *fakeClient) CreateLog(ctx context.Context, l *models.WorkoutLog) error { return errNotUsed }
func (f *fakeClient) GetScheduled(ctx context.Context) ([]models.ScheduledWorkout, error) {
	return nil, errNotUsed
}
func (f *fakeClient) CreateScheduled(ctx context.Context, s *models.ScheduledWorkout) error {
	return errNotUsed
}
func (f *fakeClient) DeleteScheduled(ctx context.Context, id string) error { return errNotUsed }
func (f *fakeClient) GetExercises(ctx context.Context) ([]models.Exercise, error) {
	return nil, errNotUsed
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

func TestRun_NoSessionSkips(t *testing.T) {
	st := openTestStore(t)
	client := &fakeClient{}
	c := New(client, st, discardLogger(), nil)

	res := c.Run(context.Background())
	require.False(t, res.Success)
	require.Empty(t, client.requests)
}

func TestRun_ShipsQueueAcksAndPersistsWatermark(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	require.NoError(t, st.Outbox.Enqueue(ctx, models.CreateWorkout{
		Workout: models.Workout{ID: "w1", Name: "Push Day", CreatedAt: time.Now().UTC()},
	}))
	require.NoError(t, st.Outbox.Enqueue(ctx, models.DeleteScheduled{ID: "s1"}))

	client := &fakeClient{token: "tok"}
	client.syncFn = func(req api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{Processed: len(req.Actions), ServerTime: "2026-05-01T10:00:00Z"}, nil
	}
	c := New(client, st, discardLogger(), nil)

	res := c.Run(ctx)
	require.True(t, res.Success)
	require.Equal(t, 2, res.Processed)

	require.Len(t, client.requests, 1)
	require.Len(t, client.requests[0].Actions, 2)
	require.Equal(t, "", client.requests[0].LastSync)
	require.Equal(t, "create", client.requests[0].Actions[0].Action)
	require.Equal(t, "delete", client.requests[0].Actions[1].Action)

	// Confirmed actions leave the queue; the watermark advances.
	items, err := st.Outbox.Drain(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
	wm, err := st.Metadata.Get(ctx, metadata.KeyLastSyncTime)
	require.NoError(t, err)
	require.Equal(t, "2026-05-01T10:00:00Z", string(wm))

	// A second round replays nothing and echoes the watermark.
	res = c.Run(ctx)
	require.True(t, res.Success)
	require.Equal(t, 0, res.Processed)
	require.Len(t, client.requests, 2)
	require.Empty(t, client.requests[1].Actions)
	require.Equal(t, "2026-05-01T10:00:00Z", client.requests[1].LastSync)
}

func TestRun_DuplicateCreateReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	// The same create queued twice (e.g. a retry raced a crash). A server
	// that dedups by id leaves the store identical to a single enqueue.
	w := models.Workout{ID: "w1", Name: "Push Day", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Workouts.Save(ctx, &w))
	require.NoError(t, st.Outbox.Enqueue(ctx, models.CreateWorkout{Workout: w}))
	require.NoError(t, st.Outbox.Enqueue(ctx, models.CreateWorkout{Workout: w}))

	client := &fakeClient{token: "tok"}
	client.syncFn = func(req api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			Processed:  len(req.Actions),
			ServerTime: "2026-05-01T10:00:00Z",
			Data:       &api.SyncData{Workouts: []models.Workout{w}},
		}, nil
	}
	c := New(client, st, discardLogger(), nil)

	require.True(t, c.Run(ctx).Success)
	require.True(t, c.Run(ctx).Success)

	all, err := st.Workouts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "w1", all[0].ID)

	items, err := st.Outbox.Drain(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRun_ServerFailureKeepsQueue(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	require.NoError(t, st.Outbox.Enqueue(ctx, models.DeleteWorkout{ID: "w1"}))

	client := &fakeClient{token: "tok"}
	client.syncFn = func(req api.SyncRequest) (*api.SyncResponse, error) {
		return nil, api.ErrUnavailable
	}
	c := New(client, st, discardLogger(), nil)

	res := c.Run(ctx)
	require.False(t, res.Success)

	// Unconfirmed actions stay queued for the next round.
	items, err := st.Outbox.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	wm, err := st.Metadata.Get(ctx, metadata.KeyLastSyncTime)
	require.NoError(t, err)
	require.Nil(t, wm)
}

func TestRun_MergeServerWinsAndDeletes(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	created := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, st.Workouts.Save(ctx, &models.Workout{ID: "w1", Name: "Old Name", CreatedAt: created}))
	require.NoError(t, st.Workouts.Save(ctx, &models.Workout{ID: "w2", Name: "Deleted Elsewhere", CreatedAt: created}))
	require.NoError(t, st.Schedule.Save(ctx, &models.ScheduledWorkout{ID: "s1", WorkoutID: "w2", Date: "2026-05-02"}))

	client := &fakeClient{token: "tok"}
	client.syncFn = func(req api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			ServerTime: "2026-05-01T10:00:00Z",
			Data: &api.SyncData{
				Workouts: []models.Workout{{ID: "w1", Name: "Server Name", CreatedAt: created}},
				// Logs and Scheduled empty: nothing of either survives.
			},
		}, nil
	}
	c := New(client, st, discardLogger(), nil)

	res := c.Run(ctx)
	require.True(t, res.Success)

	all, err := st.Workouts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "w1", all[0].ID)
	require.Equal(t, "Server Name", all[0].Name)

	sched, err := st.Schedule.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, sched)
}

func TestRun_MergeSparesPendingEntities(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	// w1 was created offline and shipped this round; w2 is created while the
	// request is in flight and must survive the merge untouched.
	w1 := models.Workout{ID: "w1", Name: "Shipped", CreatedAt: time.Now().UTC()}
	w2 := models.Workout{ID: "w2", Name: "In Flight", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Workouts.Save(ctx, &w1))
	require.NoError(t, st.Outbox.Enqueue(ctx, models.CreateWorkout{Workout: w1}))

	client := &fakeClient{token: "tok"}
	client.syncFn = func(req api.SyncRequest) (*api.SyncResponse, error) {
		// A concurrent local write lands after the queue snapshot.
		if err := st.Workouts.Save(ctx, &w2); err != nil {
			return nil, err
		}
		if err := st.Outbox.Enqueue(ctx, models.CreateWorkout{Workout: w2}); err != nil {
			return nil, err
		}
		return &api.SyncResponse{
			Processed:  len(req.Actions),
			ServerTime: "2026-05-01T10:00:00Z",
			Data: &api.SyncData{
				// The server snapshot knows w1 but not yet w2.
				Workouts: []models.Workout{w1},
			},
		}, nil
	}
	c := New(client, st, discardLogger(), nil)

	res := c.Run(ctx)
	require.True(t, res.Success)

	// w2 survives the merge because its create is still pending.
	all, err := st.Workouts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	ids := []string{all[0].ID, all[1].ID}
	require.ElementsMatch(t, []string{"w1", "w2"}, ids)

	// Only the snapshotted item was acked; the in-flight one stays queued.
	items, err := st.Outbox.Drain(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "w2", items[0].EntityID)
}

func TestRun_ApplyPhaseAndSessionWipeShareGuard(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	guard := &sync.Mutex{}
	client := &fakeClient{token: "tok"}
	client.syncFn = func(req api.SyncRequest) (*api.SyncResponse, error) {
		return &api.SyncResponse{
			ServerTime: "2026-05-01T10:00:00Z",
			Data: &api.SyncData{
				Workouts: []models.Workout{{ID: "w1", Name: "Push Day", CreatedAt: time.Now().UTC()}},
			},
		}, nil
	}
	c := New(client, st, discardLogger(), guard)
	sess := services.NewSessionService(client, st, discardLogger(), guard)

	// While the guard is held (as the wipe holds it), a round may ship its
	// request but must not reach the apply phase.
	guard.Lock()
	done := make(chan Result, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case <-done:
		t.Fatal("apply phase ran while the guard was held")
	case <-time.After(100 * time.Millisecond):
	}
	guard.Unlock()
	res := <-done
	require.True(t, res.Success)

	all, err := st.Workouts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	// And the wipe waits on the same guard while a merge holds it.
	client.SetToken("tok")
	guard.Lock()
	logoutDone := make(chan error, 1)
	go func() { logoutDone <- sess.Logout(ctx) }()
	select {
	case <-logoutDone:
		t.Fatal("wipe ran while the guard was held")
	case <-time.After(100 * time.Millisecond):
	}
	guard.Unlock()
	require.NoError(t, <-logoutDone)

	all, err = st.Workouts.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestRun_SingleFlight(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	release := make(chan struct{})
	entered := make(chan struct{})
	client := &fakeClient{token: "tok"}
	client.syncFn = func(req api.SyncRequest) (*api.SyncResponse, error) {
		close(entered)
		<-release
		return &api.SyncResponse{}, nil
	}
	c := New(client, st, discardLogger(), nil)

	done := make(chan Result, 1)
	go func() { done <- c.Run(ctx) }()
	<-entered

	// A trigger while a round is in flight collapses into it.
	res := c.Run(ctx)
	require.False(t, res.Success)

	close(release)
	first := <-done
	require.True(t, first.Success)
	require.Len(t, client.requests, 1)
}
