package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RedisBlobStore struct {
	client *redis.Client
}

func CreateRedisBlobStore(client *redis.Client) BlobStore {
	return &RedisBlobStore{client: client}
}

func (r *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("component", "RedisBlobStore.Get").Msg("")
		return nil, err
	}

	return value, nil
}

func (r *RedisBlobStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		log.Error().Err(err).Str("component", "RedisBlobStore.Set").Msg("")
	}

	return err
}
