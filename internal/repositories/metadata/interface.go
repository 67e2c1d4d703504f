package metadata

import (
	"context"
)

// Keys used by the sync engine.
const (
	// KeyLastSyncTime is the server-issued high-water-mark, stored opaque.
	KeyLastSyncTime = "lastSyncTime"

	// KeyLastUserID is the last authenticated identity the cache belonged to.
	KeyLastUserID = "lastUserId"

	// KeyAccessToken is the bearer token cached for silent session restore.
	KeyAccessToken = "accessToken"
)

// Repository is a small durable key→value store for sync metadata.
type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
