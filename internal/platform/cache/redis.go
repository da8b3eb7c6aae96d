package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"art-gallery/internal/config"
	"art-gallery/internal/gallery"
)

const snapshotKey = "gallery:snapshot"

// RedisClient caches the resolved gallery collection between load passes.
// Note: This works with both Redis and Valkey (Redis-compatible)
type RedisClient struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisClient creates a new Redis client with the provided configuration
func NewRedisClient(cfg config.CacheConfig) (*RedisClient, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("cache is disabled")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.Database,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis/Valkey: %w", err)
	}

	return &RedisClient{
		client:     rdb,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// GetSnapshot retrieves the cached gallery snapshot, if any.
func (r *RedisClient) GetSnapshot(ctx context.Context) (*gallery.Snapshot, error) {
	val, err := r.client.Get(ctx, snapshotKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("gallery snapshot not found in cache")
		}
		return nil, fmt.Errorf("failed to get gallery snapshot from cache: %w", err)
	}

	var snap gallery.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached gallery snapshot: %w", err)
	}

	return &snap, nil
}

// SetSnapshot caches the gallery snapshot with the default TTL.
func (r *RedisClient) SetSnapshot(ctx context.Context, snap *gallery.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal gallery snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey, data, r.defaultTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache gallery snapshot: %w", err)
	}

	return nil
}

// InvalidateSnapshot drops the cached gallery snapshot.
func (r *RedisClient) InvalidateSnapshot(ctx context.Context) error {
	if err := r.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("failed to delete gallery snapshot from cache: %w", err)
	}

	return nil
}

// Health checks if the Redis/Valkey connection is healthy
func (r *RedisClient) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis/Valkey health check failed: %w", err)
	}
	return nil
}

// Close closes the Redis/Valkey connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}
