package schedule

import (
	"context"
	"database/sql"
	"testing"

	"github.com/fitsyncapp/fitsync/internal/models"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:schedule_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS scheduled_workouts (
  id TEXT PRIMARY KEY,
  workout_id TEXT NOT NULL,
  workout_name TEXT NOT NULL,
  date TEXT NOT NULL,
  time_of_day TEXT
);
DELETE FROM scheduled_workouts;
`)
	require.NoError(t, err)
	return db
}

func TestSave_AndGetAll_OrderedByDateThenTime(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	items := []models.ScheduledWorkout{
		{ID: "s3", WorkoutID: "w1", WorkoutName: "Push", Date: "2024-06-02", Time: "08:00"},
		{ID: "s1", WorkoutID: "w2", WorkoutName: "Pull", Date: "2024-06-01", Time: "18:30"},
		{ID: "s2", WorkoutID: "w3", WorkoutName: "Legs", Date: "2024-06-01", Time: "07:00"},
		{ID: "s4", WorkoutID: "w4", WorkoutName: "Rest Walk", Date: "2024-06-01"},
	}
	for i := range items {
		require.NoError(t, repo.Save(ctx, &items[i]))
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	// Same-day entries with a time come before the untimed one; days ascend.
	require.Equal(t, "s2", all[0].ID)
	require.Equal(t, "s1", all[1].ID)
	require.Equal(t, "s4", all[2].ID)
	require.Equal(t, "s3", all[3].ID)
}

func TestSave_UpsertById(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	s := &models.ScheduledWorkout{ID: "s1", WorkoutID: "w1", WorkoutName: "Push", Date: "2024-06-01"}
	require.NoError(t, repo.Save(ctx, s))
	s.Date = "2024-06-03"
	s.Time = "09:15"
	require.NoError(t, repo.Save(ctx, s))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "2024-06-03", all[0].Date)
	require.Equal(t, "09:15", all[0].Time)
}

func TestDelete_NonexistentIsNoop(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	require.NoError(t, repo.Delete(context.Background(), "missing"))
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.ScheduledWorkout{ID: "s1", WorkoutID: "w", WorkoutName: "n", Date: "2024-06-01"}))
	require.NoError(t, repo.Clear(ctx))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 0)
}
