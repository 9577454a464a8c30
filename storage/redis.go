package storage

import (
	"context"
	"time"

	"github.com/agora-bot/agora/models"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each document under <prefix><name> as a plain string key
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(address, prefix string) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", address)
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (r *RedisBackend) key(name models.DocumentName) string {
	return r.prefix + string(name)
}

func (r *RedisBackend) Read(ctx context.Context, name models.DocumentName) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s from redis", r.key(name))
	}
	return data, nil
}

func (r *RedisBackend) Write(ctx context.Context, name models.DocumentName, data []byte) error {
	err := r.client.Set(ctx, r.key(name), data, 0).Err()
	return errors.Wrapf(err, "writing %s to redis", r.key(name))
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
