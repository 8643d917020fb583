package fiberstore

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Redis implements fiber.Storage on plain prefixed keys, so every entry
// carries its own expiry.
type Redis struct {
	Client *redis.Client
	Prefix string
}

var _ fiber.Storage = (*Redis)(nil)

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{
		Client: client,
		Prefix: prefix + ":",
	}
}

func (r *Redis) Close() error {
	// the client is shared and closed by its owner
	return nil
}

func (r *Redis) Delete(key string) error {
	return r.Client.Del(context.Background(), r.Prefix+key).Err()
}

// Get returns nil, nil for a missing key, as fiber.Storage expects.
func (r *Redis) Get(key string) ([]byte, error) {
	b, err := r.Client.Get(context.Background(), r.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (r *Redis) Reset() error {
	ctx := context.Background()
	iter := r.Client.Scan(ctx, 0, r.Prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		if err := r.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *Redis) Set(key string, val []byte, exp time.Duration) error {
	return r.Client.Set(context.Background(), r.Prefix+key, val, exp).Err()
}
