package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// flushBatch is the SCAN page size and the number of keys unlinked per round trip.
const flushBatch = 100

// CacheResolution remembers which link URL a jump query resolved to.
func (s *Store) CacheResolution(ctx context.Context, query, target string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CacheKey(query), target, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache resolution: %w", err)
	}
	return nil
}

// GetCachedResolution returns the remembered URL for query, or "" on a miss.
func (s *Store) GetCachedResolution(ctx context.Context, query string) (string, error) {
	target, err := s.client.Get(ctx, CacheKey(query)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to get cached resolution: %w", err)
	}
	return target, nil
}

// InvalidateCache forgets the resolution of one query.
func (s *Store) InvalidateCache(ctx context.Context, query string) error {
	if err := s.client.Del(ctx, CacheKey(query)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// FlushCache forgets every jump resolution. Called after the document
// changes, since any link may have moved or disappeared. Usage counters
// and widget payloads are kept. Keys are collected before any is removed,
// so deleting does not disturb the scan cursor.
func (s *Store) FlushCache(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", flushBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}

	for start := 0; start < len(keys); start += flushBatch {
		end := min(start+flushBatch, len(keys))
		if err := s.client.Unlink(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to delete cached resolutions: %w", err)
		}
	}
	return nil
}
