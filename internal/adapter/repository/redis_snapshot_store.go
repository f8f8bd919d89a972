package repository

import (
	"context"
	stderrors "errors"

	"github.com/go-redis/redis/v8"

	"chatmarket/internal/domain/repository"
)

type redisSnapshotStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSnapshotStore keeps one string value per key, namespaced by prefix.
func NewRedisSnapshotStore(client *redis.Client, prefix string) repository.KeyValueStore {
	return &redisSnapshotStore{
		client: client,
		prefix: prefix,
	}
}

func (r *redisSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, repository.ErrKeyNotFound
	}
	return raw, err
}

func (r *redisSnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *redisSnapshotStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
