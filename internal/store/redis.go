package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-render/internal/config"
	"resume-render/pkg/models"
)

// RedisStore keeps the slot in one Redis key. SET replaces the value atomically.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed store from configuration
func NewRedisStore(cfg *config.Config) *RedisStore {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		opts = &redis.Options{Addr: "localhost:6379"}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	key := cfg.Redis.Key
	if key == "" {
		key = "resume:latest"
	}
	return &RedisStore{client: redis.NewClient(opts), key: key}
}

func (r *RedisStore) Put(ctx context.Context, doc *models.RenderedDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store latest document: %w", err)
	}
	return nil
}

func (r *RedisStore) Latest(ctx context.Context) (*models.RenderedDocument, bool, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get latest document: %w", err)
	}

	var doc models.RenderedDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal latest document: %w", err)
	}
	return &doc, true, nil
}

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
