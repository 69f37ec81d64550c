package redis

import (
	"context"
	"fmt"
	"strconv"
)

// IncrementUsage increments the jump counter for a link URL
func (s *Store) IncrementUsage(ctx context.Context, linkURL string) error {
	if err := s.client.HIncrBy(ctx, UsageKey(), linkURL, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// GetUsageStats retrieves the jump counters of every link URL
func (s *Store) GetUsageStats(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, UsageKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage stats: %w", err)
	}

	stats := make(map[string]int64, len(raw))
	for linkURL, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		stats[linkURL] = n
	}

	return stats, nil
}
