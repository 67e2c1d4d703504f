package outbox

import (
	"context"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// Repository is the durable sync queue: mutations whose confirmation from the
// server is unknown, in the order they were issued.
//
// A row is appended only when an attempted immediate remote write failed or
// was skipped (unauthenticated); confirmed writes never touch the queue, so
// the queue is exactly the set of "the server may not know about this yet".
type Repository interface {
	// Enqueue appends a typed action. Ordering comes from an
	// auto-incrementing sequence, not wall-clock time.
	Enqueue(ctx context.Context, a models.Action) error

	// Drain returns the full current queue in order without removing it,
	// so a sync round can be attempted and cleared only on confirmed success.
	Drain(ctx context.Context) ([]models.QueueItem, error)

	// Ack removes exactly the given queue items by sequence number.
	Ack(ctx context.Context, seqs []int64) error

	// PendingIDs returns the set of entity ids with a pending item for the
	// given entity type. The merge uses it for the delete exemption.
	PendingIDs(ctx context.Context, entity models.EntityType) (map[string]struct{}, error)

	// ClearAll empties the queue unconditionally. Used only when the
	// session boundary changes.
	ClearAll(ctx context.Context) error
}
