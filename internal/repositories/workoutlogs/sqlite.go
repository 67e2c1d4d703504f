package workoutlogs

import (
	"context"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Save(ctx context.Context, l *models.WorkoutLog) error {
	query := `INSERT INTO workout_logs (id, workout_id, workout_name, date, started_at, completed_at, duration_minutes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				workout_id = excluded.workout_id,
				workout_name = excluded.workout_name,
				date = excluded.date,
				started_at = excluded.started_at,
				completed_at = excluded.completed_at,
				duration_minutes = excluded.duration_minutes`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.WorkoutID, l.WorkoutName, l.Date,
		l.StartedAt.UTC().Format(time.RFC3339Nano),
		l.CompletedAt.UTC().Format(time.RFC3339Nano),
		l.DurationMinutes)
	if err != nil {
		return fmt.Errorf("failed to upsert workout log: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM log_sets WHERE log_id = ?`, l.ID); err != nil {
		return fmt.Errorf("failed to clear log sets: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM log_exercises WHERE log_id = ?`, l.ID); err != nil {
		return fmt.Errorf("failed to clear log exercises: %w", err)
	}

	for i, e := range l.Exercises {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO log_exercises (log_id, position, exercise_id, target_sets, target_reps, rest_seconds)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			l.ID, i, e.ExerciseID, e.TargetSets, e.TargetReps, e.RestSeconds)
		if err != nil {
			return fmt.Errorf("failed to insert log exercise: %w", err)
		}
		for j, s := range e.Sets {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO log_sets (log_id, exercise_position, position, reps, completed)
				 VALUES (?, ?, ?, ?, ?)`,
				l.ID, i, j, s.Reps, s.Completed)
			if err != nil {
				return fmt.Errorf("failed to insert log set: %w", err)
			}
		}
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.WorkoutLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, workout_id, workout_name, date, started_at, completed_at, duration_minutes
		 FROM workout_logs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select workout logs: %w", err)
	}
	defer rows.Close()

	result := []models.WorkoutLog{}
	index := map[string]int{}
	for rows.Next() {
		var l models.WorkoutLog
		var startedAt, completedAt string
		if err := rows.Scan(&l.ID, &l.WorkoutID, &l.WorkoutName, &l.Date,
			&startedAt, &completedAt, &l.DurationMinutes); err != nil {
			return nil, err
		}
		if l.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse log started_at: %w", err)
		}
		if l.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
			return nil, fmt.Errorf("failed to parse log completed_at: %w", err)
		}
		index[l.ID] = len(result)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exRows, err := r.db.QueryContext(ctx,
		`SELECT log_id, exercise_id, target_sets, target_reps, rest_seconds
		 FROM log_exercises ORDER BY log_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select log exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var logID string
		var e models.CompletedExercise
		if err := exRows.Scan(&logID, &e.ExerciseID, &e.TargetSets, &e.TargetReps, &e.RestSeconds); err != nil {
			return nil, err
		}
		if i, ok := index[logID]; ok {
			result[i].Exercises = append(result[i].Exercises, e)
		}
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := r.db.QueryContext(ctx,
		`SELECT log_id, exercise_position, reps, completed
		 FROM log_sets ORDER BY log_id, exercise_position, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select log sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var logID string
		var exercisePos int
		var s models.CompletedSet
		if err := setRows.Scan(&logID, &exercisePos, &s.Reps, &s.Completed); err != nil {
			return nil, err
		}
		if i, ok := index[logID]; ok && exercisePos < len(result[i].Exercises) {
			ex := &result[i].Exercises[exercisePos]
			ex.Sets = append(ex.Sets, s)
		}
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM log_sets WHERE log_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete log sets: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM log_exercises WHERE log_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete log exercises: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workout_logs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete workout log: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	for _, q := range []string{`DELETE FROM log_sets`, `DELETE FROM log_exercises`, `DELETE FROM workout_logs`} {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear workout logs: %w", err)
		}
	}
	return nil
}
