package outbox

import (
	"context"
	"fmt"
	"strings"
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

func (r *SQLiteRepository) Enqueue(ctx context.Context, a models.Action) error {
	item, err := models.NewQueueItem(a)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sync_queue (entity, entity_id, action, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(item.Entity), item.EntityID, string(item.Action), item.Payload,
		item.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to enqueue sync action: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Drain(ctx context.Context) ([]models.QueueItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, entity, entity_id, action, payload, created_at
		 FROM sync_queue ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to select sync queue: %w", err)
	}
	defer rows.Close()

	result := []models.QueueItem{}
	for rows.Next() {
		var item models.QueueItem
		var entity, action, createdAt string
		if err := rows.Scan(&item.Seq, &entity, &item.EntityID, &action, &item.Payload, &createdAt); err != nil {
			return nil, err
		}
		item.Entity = models.EntityType(entity)
		item.Action = models.ActionKind(action)
		if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse queue item created_at: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Ack(ctx context.Context, seqs []int64) error {
	if len(seqs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seqs)), ",")
	args := make([]any, 0, len(seqs))
	for _, s := range seqs {
		args = append(args, s)
	}
	query := fmt.Sprintf(`DELETE FROM sync_queue WHERE seq IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to ack sync queue items: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PendingIDs(ctx context.Context, entity models.EntityType) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT entity_id FROM sync_queue WHERE entity = ?`, string(entity))
	if err != nil {
		return nil, fmt.Errorf("failed to select pending ids: %w", err)
	}
	defer rows.Close()

	result := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue`); err != nil {
		return fmt.Errorf("failed to clear sync queue: %w", err)
	}
	return nil
}
