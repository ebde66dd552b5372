package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

const defaultReplayTTL = 24 * time.Hour

// ReplayCache stores the result of idempotent stock adjustments so a retried
// request gets the first response back instead of applying its delta twice.
// Key format: stock-replay:<user_id>:<item_id>:<idempotency_key>
type ReplayCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReplayCache creates a ReplayCache wrapping the given Redis client.
func NewReplayCache(client *redis.Client, ttl time.Duration) *ReplayCache {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &ReplayCache{client: client, ttl: ttl}
}

// Lookup returns the remembered item for key, if any.
func (c *ReplayCache) Lookup(ctx context.Context, key string) (*domain.InventoryItem, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("replay lookup: %w", err)
	}

	var item domain.InventoryItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, false, fmt.Errorf("replay decode: %w", err)
	}
	return &item, true, nil
}

// Remember records the outcome for key (expires after the configured TTL).
func (c *ReplayCache) Remember(ctx context.Context, key string, item *domain.InventoryItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("replay encode: %w", err)
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *ReplayCache) key(k string) string {
	return "stock-replay:" + k
}
