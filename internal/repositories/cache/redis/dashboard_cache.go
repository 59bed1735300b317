package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	portsrepo "github.com/ememohq/ememo_backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

// RedisDashboardCache caches dashboard aggregates in Redis as JSON blobs.
type RedisDashboardCache struct {
	client *redis.Client
}

// NewRedisDashboardCache creates a cache backed by the given client.
func NewRedisDashboardCache(client *redis.Client) portsrepo.DashboardCache {
	return &RedisDashboardCache{client: client}
}

// Ensure RedisDashboardCache implements the interface
var _ portsrepo.DashboardCache = (*RedisDashboardCache)(nil)

func countsKey(userID string) string {
	return fmt.Sprintf("dashboard:counts:%s", userID)
}

// GetCounts returns the cached counts, or apperrors.ErrNotFound on a miss.
func (c *RedisDashboardCache) GetCounts(ctx context.Context, userID string) (*portsrepo.DashboardCounts, error) {
	payload, err := c.client.Get(ctx, countsKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read dashboard cache for user %s: %w", userID, err)
	}

	var counts portsrepo.DashboardCounts
	if err := json.Unmarshal([]byte(payload), &counts); err != nil {
		// A corrupt entry is treated as a miss so callers recompute.
		return nil, apperrors.ErrNotFound
	}
	return &counts, nil
}

// SetCounts stores the counts with the given TTL.
func (c *RedisDashboardCache) SetCounts(ctx context.Context, userID string, counts *portsrepo.DashboardCounts, ttl time.Duration) error {
	payload, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard counts: %w", err)
	}
	if err := c.client.Set(ctx, countsKey(userID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache for user %s: %w", userID, err)
	}
	return nil
}

// InvalidateCounts drops the cached counts. Deleting an absent key is a no-op.
func (c *RedisDashboardCache) InvalidateCounts(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, countsKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache for user %s: %w", userID, err)
	}
	return nil
}
