package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Atomic996/Bougtobstore/internal/repository"
	"github.com/redis/go-redis/v9"
)

type cacheRepository struct {
	client *redis.Client
}

// NewCacheRepository returns a byte-oriented cache backed by redis. Misses
// surface as repository.ErrNotFound.
func NewCacheRepository(client *redis.Client) repository.Cache {
	return &cacheRepository{client: client}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis get for key %q: %w", key, err)
	}
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set for key %q: %w", key, err)
	}
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del for key %q: %w", key, err)
	}
	return nil
}
