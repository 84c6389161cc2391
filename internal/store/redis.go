package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ngmaloney/skypulse-terminal/internal/models"
)

// RedisStore keeps the last result under LastResultKey with no expiry
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to addr and pings it before returning
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Load(ctx context.Context) (*models.CachedResult, error) {
	raw, err := r.client.Get(ctx, LastResultKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var result models.CachedResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding last result: %w", err)
	}
	return &result, nil
}

func (r *RedisStore) Save(ctx context.Context, result models.CachedResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding last result: %w", err)
	}
	if err := r.client.Set(ctx, LastResultKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (r *RedisStore) Close() error {
	return r.client.Close()
}
