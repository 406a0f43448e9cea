package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// storeKey holds the whole record document under one key. The engine writes
// the document in a single SET, so readers never observe a half-applied run.
const storeKey = "assets:document"

// RedisStore persists the record document as one JSON value in Redis.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Entry
}

// NewRedisStore creates a Redis-backed asset store and verifies the
// connection with a ping.
func NewRedisStore(cfg *config.RedisConfig, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  5 * time.Minute,
		MaxRetries:   2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		logger: logger.WithField("component", "redis-store"),
	}, nil
}

// LoadAll reads the record document. A missing key yields an empty map.
func (rs *RedisStore) LoadAll(ctx context.Context) (map[string]*models.AssetRecord, error) {
	data, err := rs.client.Get(ctx, storeKey).Result()
	if err == redis.Nil {
		rs.logger.Info("No existing store document in Redis, starting empty")
		return make(map[string]*models.AssetRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store document: %w", err)
	}

	var records map[string]*models.AssetRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("failed to decode store document: %w", err)
	}
	if records == nil {
		records = make(map[string]*models.AssetRecord)
	}
	return records, nil
}

// SaveAll writes the whole record document in one SET without expiry.
func (rs *RedisStore) SaveAll(ctx context.Context, records map[string]*models.AssetRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	if err := rs.client.Set(ctx, storeKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save store document: %w", err)
	}

	rs.logger.WithField("count", len(records)).Debug("Store document written")
	return nil
}

// Health checks the Redis connection.
func (rs *RedisStore) Health(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
