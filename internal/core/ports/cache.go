// internal/core/ports/cache.go
package ports

import (
	"context"
	"time"
)

// CacheRepository defines the interface for cache operations.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
}

// TaskEnqueuer hands work off to the background worker. Implementations must
// be safe for concurrent use; enqueue failures are reported, never retried
// by the caller.
type TaskEnqueuer interface {
	EnqueueLowStockAlert(ctx context.Context, productID int64, productName string, quantity int) error
}
