package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockpilot/internal/config"
	"github.com/andresuchdata/stockpilot/internal/domain"
	"github.com/redis/go-redis/v9"
)

const productsKeyPrefix = "inventory:products"

// ProductCache stores composed product snapshots per subscription tier.
type ProductCache interface {
	Get(ctx context.Context, tier domain.SubscriptionTier) (*domain.InventorySnapshot, bool, error)
	Set(ctx context.Context, snapshot *domain.InventorySnapshot) error
	InvalidateAll(ctx context.Context) error
}

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopProductCache struct{}

func NewProductCache(cfg config.CacheConfig) (ProductCache, error) {
	if !cfg.Enabled {
		return &noopProductCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisProductCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopProductCache() ProductCache {
	return &noopProductCache{}
}

func (c *redisProductCache) Get(ctx context.Context, tier domain.SubscriptionTier) (*domain.InventorySnapshot, bool, error) {
	payload, err := c.client.Get(ctx, productsKey(tier)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot domain.InventorySnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode product snapshot cache: %w", err)
	}

	return &snapshot, true, nil
}

func (c *redisProductCache) Set(ctx context.Context, snapshot *domain.InventorySnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode product snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, productsKey(snapshot.Tier), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisProductCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, productsKeyPrefix, scanBatchSize)
}

func (n *noopProductCache) Get(ctx context.Context, tier domain.SubscriptionTier) (*domain.InventorySnapshot, bool, error) {
	return nil, false, nil
}

func (n *noopProductCache) Set(ctx context.Context, snapshot *domain.InventorySnapshot) error {
	return nil
}

func (n *noopProductCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func productsKey(tier domain.SubscriptionTier) string {
	return fmt.Sprintf("%s:%s", productsKeyPrefix, strings.ToLower(string(tier)))
}
