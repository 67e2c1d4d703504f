// Package syncer drives sync rounds against the remote authority: it ships
// the queued offline mutations, acknowledges what the server confirmed, and
// reconciles the local store with the server's snapshot.
package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/dbx"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/models"
	"github.com/fitsyncapp/fitsync/internal/repositories/metadata"
	"github.com/fitsyncapp/fitsync/internal/repositories/outbox"
	"github.com/fitsyncapp/fitsync/internal/repositories/schedule"
	"github.com/fitsyncapp/fitsync/internal/repositories/workoutlogs"
	"github.com/fitsyncapp/fitsync/internal/repositories/workouts"
	"github.com/fitsyncapp/fitsync/internal/store"
)

// Result is the outcome of one sync round. A skipped round (no session, or
// another round in flight) reports Success=false with Processed=0.
type Result struct {
	Success   bool
	Processed int
}

// Coordinator runs at most one sync round at a time. Triggers may fire from
// anywhere (timer, foreground event, post-mutation); concurrent triggers
// collapse into the round already in flight.
type Coordinator struct {
	client api.Client
	store  *store.Store
	logger logging.Logger

	// guard serializes the local apply phase with the session boundary
	// wipe. Shared with services.SessionService.
	guard *sync.Mutex

	mu         sync.Mutex
	inProgress bool
}

// New builds a Coordinator. guard must be the mutex shared with the session
// service; pass nil to let the coordinator own one.
func New(client api.Client, st *store.Store, logger logging.Logger, guard *sync.Mutex) *Coordinator {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	return &Coordinator{
		client: client,
		store:  st,
		logger: logger.With("component", "syncer"),
		guard:  guard,
	}
}

// Run performs one sync round. It never panics past its boundary: any
// failure is logged and reported as Result{Success: false}.
func (c *Coordinator) Run(ctx context.Context) (res Result) {
	if c.client.Token() == "" {
		c.logger.Debug(ctx, "sync skipped: no session")
		return Result{}
	}

	if !c.begin() {
		c.logger.Debug(ctx, "sync skipped: round already in flight")
		return Result{}
	}
	defer c.end()

	defer func() {
		if p := recover(); p != nil {
			c.logger.Error(ctx, "sync round panicked", "panic", fmt.Sprint(p))
			failedCounter.Inc()
			res = Result{}
		}
	}()

	roundsCounter.Inc()
	start := time.Now()
	defer func() { roundDuration.Observe(time.Since(start).Seconds()) }()

	res, err := c.round(ctx)
	if err != nil {
		c.logger.Warn(ctx, "sync round failed", "error", err)
		failedCounter.Inc()
		return Result{}
	}

	actionsCounter.Add(float64(res.Processed))
	c.logger.Info(ctx, "sync round finished", "processed", res.Processed)
	return res
}

func (c *Coordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inProgress {
		return false
	}
	c.inProgress = true
	return true
}

func (c *Coordinator) end() {
	c.mu.Lock()
	c.inProgress = false
	c.mu.Unlock()
}

func (c *Coordinator) round(ctx context.Context) (Result, error) {
	// Snapshot the queue; anything enqueued after this point belongs to the
	// next round and stays pending through the merge.
	items, err := c.store.Outbox.Drain(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("draining queue: %w", err)
	}

	watermark, err := c.store.Metadata.Get(ctx, metadata.KeyLastSyncTime)
	if err != nil {
		return Result{}, fmt.Errorf("reading watermark: %w", err)
	}

	req := api.SyncRequest{
		Actions:  make([]api.SyncAction, 0, len(items)),
		LastSync: string(watermark),
	}
	for _, item := range items {
		req.Actions = append(req.Actions, api.QueueItemToAction(item))
	}

	resp, err := c.client.Sync(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("sync request: %w", err)
	}

	seqs := make([]int64, 0, len(items))
	for _, item := range items {
		seqs = append(seqs, item.Seq)
	}

	// The server has confirmed the whole round; apply it locally as one
	// transaction so a crash can only lose the round, never half of it.
	c.guard.Lock()
	defer c.guard.Unlock()

	err = dbx.WithTx(ctx, c.store.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ob := outbox.NewSQLiteRepository(tx)
		if err := ob.Ack(ctx, seqs); err != nil {
			return fmt.Errorf("acking queue: %w", err)
		}

		if resp.Data != nil {
			if err := mergeWorkouts(ctx, tx, ob, resp.Data.Workouts); err != nil {
				return err
			}
			if err := mergeLogs(ctx, tx, ob, resp.Data.Logs); err != nil {
				return err
			}
			if err := mergeScheduled(ctx, tx, ob, resp.Data.Scheduled); err != nil {
				return err
			}
		}

		if resp.ServerTime != "" {
			if err := metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeyLastSyncTime, []byte(resp.ServerTime)); err != nil {
				return fmt.Errorf("persisting watermark: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Success: true, Processed: resp.Processed}, nil
}

// mergeWorkouts reconciles the local workout set with the server's. Server
// wins on content; a local workout absent from the server set is deleted
// unless an action for it is still pending, which means the server simply
// has not seen it yet.
func mergeWorkouts(ctx context.Context, tx dbx.DBTX, ob outbox.Repository, server []models.Workout) error {
	repo := workouts.NewSQLiteRepository(tx)

	pending, err := ob.PendingIDs(ctx, models.EntityWorkout)
	if err != nil {
		return fmt.Errorf("merging workouts: %w", err)
	}

	keep := make(map[string]struct{}, len(server))
	for i := range server {
		keep[server[i].ID] = struct{}{}
		if err := repo.Save(ctx, &server[i]); err != nil {
			return fmt.Errorf("merging workouts: %w", err)
		}
	}

	local, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("merging workouts: %w", err)
	}
	for _, w := range local {
		if _, ok := keep[w.ID]; ok {
			continue
		}
		if _, ok := pending[w.ID]; ok {
			continue
		}
		if err := repo.Delete(ctx, w.ID); err != nil {
			return fmt.Errorf("merging workouts: %w", err)
		}
	}
	return nil
}

func mergeLogs(ctx context.Context, tx dbx.DBTX, ob outbox.Repository, server []models.WorkoutLog) error {
	repo := workoutlogs.NewSQLiteRepository(tx)

	pending, err := ob.PendingIDs(ctx, models.EntityWorkoutLog)
	if err != nil {
		return fmt.Errorf("merging logs: %w", err)
	}

	keep := make(map[string]struct{}, len(server))
	for i := range server {
		keep[server[i].ID] = struct{}{}
		if err := repo.Save(ctx, &server[i]); err != nil {
			return fmt.Errorf("merging logs: %w", err)
		}
	}

	local, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("merging logs: %w", err)
	}
	for _, l := range local {
		if _, ok := keep[l.ID]; ok {
			continue
		}
		if _, ok := pending[l.ID]; ok {
			continue
		}
		if err := repo.Delete(ctx, l.ID); err != nil {
			return fmt.Errorf("merging logs: %w", err)
		}
	}
	return nil
}

func mergeScheduled(ctx context.Context, tx dbx.DBTX, ob outbox.Repository, server []models.ScheduledWorkout) error {
	repo := schedule.NewSQLiteRepository(tx)

	pending, err := ob.PendingIDs(ctx, models.EntityScheduled)
	if err != nil {
		return fmt.Errorf("merging schedule: %w", err)
	}

	keep := make(map[string]struct{}, len(server))
	for i := range server {
		keep[server[i].ID] = struct{}{}
		if err := repo.Save(ctx, &server[i]); err != nil {
			return fmt.Errorf("merging schedule: %w", err)
		}
	}

	local, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("merging schedule: %w", err)
	}
	for _, s := range local {
		if _, ok := keep[s.ID]; ok {
			continue
		}
		if _, ok := pending[s.ID]; ok {
			continue
		}
		if err := repo.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("merging schedule: %w", err)
		}
	}
	return nil
}
