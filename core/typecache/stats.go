package typecache

import (
	"time"

	"github.com/codewandler/typecache/core/typetag"
)

// BucketStats describes one key-type bucket at the time Stats was called.
type BucketStats struct {
	ID        string
	KeyType   typetag.Tag
	ValueRoot typetag.Tag
	Size      int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Stats returns one entry per bucket in creation order.
func (c *Cache[K, V]) Stats() []BucketStats {
	buckets := c.snapshot()
	out := make([]BucketStats, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, BucketStats{
			ID:        b.id,
			KeyType:   b.keyType,
			ValueRoot: b.valueRoot,
			Size:      b.size(),
			CreatedAt: b.createdAt,
			ExpiresAt: b.expiresAt,
		})
	}
	return out
}
