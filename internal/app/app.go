// Package app wires the FitSync client together: configuration, local store,
// API client, services, and the background sync loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-retry"

	"github.com/fitsyncapp/fitsync/internal/api"
	"github.com/fitsyncapp/fitsync/internal/common"
	"github.com/fitsyncapp/fitsync/internal/config"
	"github.com/fitsyncapp/fitsync/internal/logging"
	"github.com/fitsyncapp/fitsync/internal/services"
	"github.com/fitsyncapp/fitsync/internal/store"
	"github.com/fitsyncapp/fitsync/internal/syncer"
)

var errRoundFailed = errors.New("sync round failed")

// App owns every long-lived component of the client.
type App struct {
	cfg         *config.Config
	logger      logging.Logger
	store       *store.Store
	client      api.Client
	coordinator *syncer.Coordinator

	Session   services.SessionService
	Workouts  services.WorkoutService
	Logs      services.WorkoutLogService
	Schedule  services.ScheduleService
	Exercises services.ExerciseService
}

// NewApp opens the local store and builds the full service graph. A store
// that cannot be opened or migrated is fatal: the client must not run
// against a cache it could silently lose.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	client := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout)

	// One guard for the session wipe and the sync merge.
	guard := &sync.Mutex{}

	return &App{
		cfg:         cfg,
		logger:      logger,
		store:       st,
		client:      client,
		coordinator: syncer.New(client, st, logger, guard),
		Session:     services.NewSessionService(client, st, logger, guard),
		Workouts:    services.NewWorkoutService(client, st, logger),
		Logs:        services.NewWorkoutLogService(client, st, logger),
		Schedule:    services.NewScheduleService(client, st, logger),
		Exercises:   services.NewExerciseService(client, st, logger),
	}, nil
}

// Run restores the previous session, then drives the periodic sync loop
// until the context is cancelled or an interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.MetricsAddress != "" {
		go a.serveMetrics(ctx)
	}

	if _, err := a.Session.Restore(ctx); err != nil {
		if !errors.Is(err, common.ErrorUnauthorized) {
			a.logger.Warn(ctx, "session restore failed", "error", err)
		}
	} else {
		a.logger.Info(ctx, "session restored", "user", a.Session.UserID())
		a.Sync(ctx)
		if _, err := a.Exercises.Refresh(ctx); err != nil {
			a.logger.Debug(ctx, "exercise catalog refresh failed", "error", err)
		}
	}

	ticker := time.NewTicker(a.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info(ctx, "shutting down")
			return a.store.Close()
		case <-ticker.C:
			a.Sync(ctx)
		}
	}
}

// Sync runs one sync round with a short exponential backoff on failure.
// Skipped entirely when no session exists or the token is already expired:
// such a round cannot succeed.
func (a *App) Sync(ctx context.Context) {
	if !a.Session.Authenticated() || a.Session.Expired() {
		return
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if res := a.coordinator.Run(ctx); !res.Success {
			return retry.RetryableError(errRoundFailed)
		}
		return nil
	})
	if err != nil {
		a.logger.Warn(ctx, "sync gave up until next tick", "error", err)
	}
}

func (a *App) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: a.cfg.MetricsAddress, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info(ctx, "metrics endpoint listening", "address", a.cfg.MetricsAddress)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error(ctx, "metrics endpoint failed", "error", err)
	}
}
