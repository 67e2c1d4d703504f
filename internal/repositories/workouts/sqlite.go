package workouts

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

func (r *SQLiteRepository) Save(ctx context.Context, w *models.Workout) error {
	query := `INSERT INTO workouts (id, name, created_at) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query, w.ID, w.Name, w.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert workout: %w", err)
	}

	// Full replace: the exercise list carries no identity of its own.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workout_exercises WHERE workout_id = ?`, w.ID); err != nil {
		return fmt.Errorf("failed to clear workout exercises: %w", err)
	}
	for i, e := range w.Exercises {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO workout_exercises (workout_id, position, exercise_id, sets, reps, rest_seconds)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			w.ID, i, e.ExerciseID, e.Sets, e.Reps, e.RestSeconds)
		if err != nil {
			return fmt.Errorf("failed to insert workout exercise: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Workout, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM workouts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select workouts: %w", err)
	}
	defer rows.Close()

	result := []models.Workout{}
	index := map[string]int{}
	for rows.Next() {
		var w models.Workout
		var createdAt string
		if err := rows.Scan(&w.ID, &w.Name, &createdAt); err != nil {
			return nil, err
		}
		if w.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse workout created_at: %w", err)
		}
		index[w.ID] = len(result)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exRows, err := r.db.QueryContext(ctx,
		`SELECT workout_id, exercise_id, sets, reps, rest_seconds
		 FROM workout_exercises ORDER BY workout_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select workout exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var workoutID string
		var e models.WorkoutExercise
		if err := exRows.Scan(&workoutID, &e.ExerciseID, &e.Sets, &e.Reps, &e.RestSeconds); err != nil {
			return nil, err
		}
		if i, ok := index[workoutID]; ok {
			result[i].Exercises = append(result[i].Exercises, e)
		}
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workout_exercises WHERE workout_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete workout exercises: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workout_exercises`); err != nil {
		return fmt.Errorf("failed to clear workout exercises: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workouts`); err != nil {
		return fmt.Errorf("failed to clear workouts: %w", err)
	}
	return nil
}
