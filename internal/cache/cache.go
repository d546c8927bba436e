package cache

import (
	"context"
	"time"
)

// BytesCache — байтовый кэш с TTL. Корректность от него не зависит: любой
// промах пересчитывается заново (read-through).
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPrefix removes every key under prefix and returns how many were
	// dropped. Used for scope-level invalidation after admin rate-card edits.
	DelPrefix(ctx context.Context, prefix string) (int, error)
}
