package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fitsyncapp/fitsync/internal/dbx"
	"github.com/fitsyncapp/fitsync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, s *models.ScheduledWorkout) error {
	query := `INSERT INTO scheduled_workouts (id, workout_id, workout_name, date, time_of_day)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				workout_id = excluded.workout_id,
				workout_name = excluded.workout_name,
				date = excluded.date,
				time_of_day = excluded.time_of_day`
	var tod any
	if s.Time != "" {
		tod = s.Time
	}
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.WorkoutID, s.WorkoutName, s.Date, tod); err != nil {
		return fmt.Errorf("failed to upsert scheduled workout: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ScheduledWorkout, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, workout_id, workout_name, date, time_of_day
		 FROM scheduled_workouts
		 ORDER BY date, time_of_day IS NULL, time_of_day, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select scheduled workouts: %w", err)
	}
	defer rows.Close()

	result := []models.ScheduledWorkout{}
	for rows.Next() {
		var s models.ScheduledWorkout
		var tod sql.NullString
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.WorkoutName, &s.Date, &tod); err != nil {
			return nil, err
		}
		s.Time = tod.String
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_workouts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete scheduled workout: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_workouts`); err != nil {
		return fmt.Errorf("failed to clear scheduled workouts: %w", err)
	}
	return nil
}
