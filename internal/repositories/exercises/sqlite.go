package exercises

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fitsyncapp/fitsync/internal/dbx"
	"github.com/fitsyncapp/fitsync/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// String-list fields are stored as JSON text.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, list []models.Exercise) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exercises`); err != nil {
		return fmt.Errorf("failed to clear exercise catalog: %w", err)
	}
	for _, e := range list {
		muscleGroups, err := json.Marshal(e.MuscleGroups)
		if err != nil {
			return fmt.Errorf("failed to encode muscle groups: %w", err)
		}
		equipment, err := json.Marshal(e.Equipment)
		if err != nil {
			return fmt.Errorf("failed to encode equipment: %w", err)
		}
		steps, err := json.Marshal(e.Steps)
		if err != nil {
			return fmt.Errorf("failed to encode steps: %w", err)
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO exercises (id, name, muscle_groups, equipment, difficulty, description, steps)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, string(muscleGroups), string(equipment), e.Difficulty, e.Description, string(steps))
		if err != nil {
			return fmt.Errorf("failed to insert exercise: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Exercise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, muscle_groups, equipment, difficulty, description, steps
		 FROM exercises ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select exercises: %w", err)
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		var muscleGroups, equipment, steps string
		if err := rows.Scan(&e.ID, &e.Name, &muscleGroups, &equipment, &e.Difficulty, &e.Description, &steps); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(muscleGroups), &e.MuscleGroups); err != nil {
			return nil, fmt.Errorf("failed to decode muscle groups: %w", err)
		}
		if err := json.Unmarshal([]byte(equipment), &e.Equipment); err != nil {
			return nil, fmt.Errorf("failed to decode equipment: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &e.Steps); err != nil {
			return nil, fmt.Errorf("failed to decode steps: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exercises`); err != nil {
		return fmt.Errorf("failed to clear exercises: %w", err)
	}
	return nil
}
