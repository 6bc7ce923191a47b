package implementation

import (
	"context"
	"errors"
	"fmt"

	"talentify-client/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type redisStorageRepository struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStorageRepository(rdb *redis.Client, prefix string) contract.IStorageRepository {
	return &redisStorageRepository{rdb: rdb, prefix: prefix}
}

// NewRedisClient parses a redis:// URL, falling back to a local default address.
func NewRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: "localhost:6379"}
	}
	return redis.NewClient(opt)
}

func (r *redisStorageRepository) Get(ctx context.Context, key contract.StorageKey) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.prefix+string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *redisStorageRepository) Set(ctx context.Context, key contract.StorageKey, value string) error {
	if err := r.rdb.Set(ctx, r.prefix+string(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *redisStorageRepository) Delete(ctx context.Context, keys ...contract.StorageKey) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, r.prefix+string(key))
	}
	if err := r.rdb.Del(ctx, names...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
