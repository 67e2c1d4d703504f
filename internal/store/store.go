// Package store opens the local SQLite database, applies schema migrations,
// and bundles the per-entity repositories behind one handle.
//
// The store is the device-local source of truth: UI reads never touch the
// network, and a read against an empty store returns an empty collection.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fitsyncapp/fitsync/internal/common"
	"github.com/fitsyncapp/fitsync/internal/dbx"
	"github.com/fitsyncapp/fitsync/internal/filex"
	"github.com/fitsyncapp/fitsync/internal/migrations"
	"github.com/fitsyncapp/fitsync/internal/repositories/exercises"
	"github.com/fitsyncapp/fitsync/internal/repositories/metadata"
	"github.com/fitsyncapp/fitsync/internal/repositories/outbox"
	"github.com/fitsyncapp/fitsync/internal/repositories/schedule"
	"github.com/fitsyncapp/fitsync/internal/repositories/workoutlogs"
	"github.com/fitsyncapp/fitsync/internal/repositories/workouts"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store owns the database handle and the repositories bound to it.
type Store struct {
	DB *sql.DB

	Workouts  workouts.Repository
	Logs      workoutlogs.Repository
	Schedule  schedule.Repository
	Exercises exercises.Repository
	Outbox    outbox.Repository
	Metadata  metadata.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open creates or opens the database at dsn, migrates the schema, and returns
// a ready Store. A failure here is the one fatal storage fault: callers must
// surface it rather than continue with a cache that may lose data.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}

	return &Store{
		DB:        db,
		Workouts:  workouts.NewSQLiteRepository(db),
		Logs:      workoutlogs.NewSQLiteRepository(db),
		Schedule:  schedule.NewSQLiteRepository(db),
		Exercises: exercises.NewSQLiteRepository(db),
		Outbox:    outbox.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Reset wipes every synchronized entity type, the outbox, and sync metadata
// in a single transaction. Used by the session boundary on user switch and
// logout; no data survives a reset.
func (s *Store) Reset(ctx context.Context) error {
	return dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := workouts.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := workoutlogs.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := schedule.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := exercises.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := outbox.NewSQLiteRepository(tx).ClearAll(ctx); err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Clear(ctx)
	})
}
