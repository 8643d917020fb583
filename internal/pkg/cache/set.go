package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrNotFound = redis.Nil

// Set is a typed, prefixed view over redis. Values are msgpack encoded.
type Set[T any] struct {
	// m serializes the slow path of MutexGetSet
	m sync.Mutex

	client *redis.Client
	prefix string
}

func NewSet[T any](client *redis.Client, prefix string) *Set[T] {
	return &Set[T]{
		client: client,
		prefix: prefix + ":",
	}
}

func (c *Set[T]) key(key string) string {
	return c.prefix + key
}

func (c *Set[T]) Get(ctx context.Context, key string, dest *T) error {
	key = c.key(key)
	resp, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Str("key", key).Msg("failed to get value from redis")
		}
		return err
	}
	if err := msgpack.Unmarshal(resp, dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal value from msgpack from redis")
		return err
	}
	return nil
}

func (c *Set[T]) Set(ctx context.Context, key string, value T, expire time.Duration) error {
	key = c.key(key)
	if l := log.Trace(); l.Enabled() {
		l.Str("key", key).Msg("setting value to redis")
	}
	b, err := msgpack.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal value with msgpack")
		return err
	}
	if err := c.client.Set(ctx, key, b, expire).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set value to redis")
		return err
	}
	return nil
}

// MutexGetSet reads key into dest. On a miss, valueFunc is evaluated at most
// once per process at a time, its result is cached and written to dest.
// The returned bool reports whether valueFunc produced the value.
func (c *Set[T]) MutexGetSet(ctx context.Context, key string, dest *T, valueFunc func() (T, error), expire time.Duration) (bool, error) {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return false, nil
	} else if !errors.Is(err, redis.Nil) {
		return false, err
	}

	c.m.Lock()
	defer c.m.Unlock()

	err = c.Get(ctx, key, dest)
	if err == nil {
		return false, nil
	} else if !errors.Is(err, redis.Nil) {
		return false, err
	}

	value, err := valueFunc()
	if err != nil {
		return true, err
	}
	if err := c.Set(ctx, key, value, expire); err != nil {
		// the value is still good even if caching it failed
		log.Warn().Err(err).Str("key", c.key(key)).Msg("failed to cache value in MutexGetSet")
	}
	*dest = value
	return true, nil
}

func (c *Set[T]) Delete(ctx context.Context, key string) error {
	key = c.key(key)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete value from redis")
		return err
	}
	return nil
}
