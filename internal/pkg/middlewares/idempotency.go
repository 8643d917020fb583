package middlewares

import (
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/pkg/rekuest"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

// LockFunc acquires an exclusive lock named key. The returned function releases it.
type LockFunc func(key string) (unlock func(), err error)

// RedSyncLock adapts redsync to LockFunc, so that the same idempotency key is
// only processed once across all backend instances.
func RedSyncLock(rs *redsync.Redsync) LockFunc {
	return func(key string) (func(), error) {
		mutex := rs.NewMutex(key, redsync.WithExpiry(time.Minute), redsync.WithTries(5), redsync.WithRetryDelay(time.Millisecond*250))
		if err := mutex.Lock(); err != nil {
			return nil, err
		}
		return func() {
			if _, err := mutex.Unlock(); err != nil {
				log.Err(err).
					Str("evt.name", "http.idempotency.unlock.failed").
					Str("key", key).
					Msg("failed to unlock idempotency key.")
			}
		}, nil
	}
}

type IdempotencyConfig struct {
	// Lifetime is the maximum lifetime of an idempotency key.
	Lifetime time.Duration

	// KeyHeader is the name of the header that contains the idempotency key.
	KeyHeader string

	// KeepResponseHeaders lists the response headers replayed on a hit.
	// Defaults to Content-Type and Location.
	KeepResponseHeaders []string

	// Storage is the storage backend for the idempotency key & its response data.
	Storage fiber.Storage

	Lock LockFunc

	// Next defines a function to skip this middleware when returned true.
	Next func(c *fiber.Ctx) bool
}

type idempotencyResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Idempotency replays the saved response of a previously successful request
// carrying the same key. Zone creation uses it so a retried form submission
// never produces a second zone.
func Idempotency(config IdempotencyConfig) fiber.Handler {
	if config.KeepResponseHeaders == nil {
		config.KeepResponseHeaders = []string{fiber.HeaderContentType, fiber.HeaderLocation}
	}

	return func(c *fiber.Ctx) error {
		if config.Next != nil && config.Next(c) {
			return c.Next()
		}

		key := c.Get(config.KeyHeader)
		if key == "" {
			return c.Next()
		}

		if err := rekuest.ValidVar(key, "max=128,alphanum"); err != nil {
			return zferr.ErrInvalidReq.Msg("invalid idempotency key: idempotency key can only be at most %d characters, consist of only alphanumeric characters", constant.IdempotencyKeyLengthLimit)
		}

		c.Locals(constant.ContextKeyIdempotencyKey, key)

		if exist, err := replay(c, config, key); exist {
			return err
		}

		unlock, err := config.Lock("mutex:idempotency-request:" + key)
		if err != nil {
			log.Err(err).
				Str("evt.name", "http.idempotency.lock.failed").
				Str("key", key).
				Msg("failed to lock idempotency key. Returning error.")
			return zferr.ErrConflict.Msg("idempotency key is locked by another request; are you sending the same request concurrently?")
		}
		defer unlock()

		// the holder of the lock before us may have saved a response meanwhile
		if exist, err := replay(c, config, key); exist {
			return err
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}

		b, err := marshalResponse(c, config)
		if err != nil {
			log.Error().
				Str("evt.name", "http.idempotency.response.marshal.failed").
				Err(err).
				Msg("error marshaling response to bytes. Skipping saving the idempotency response.")
			return nil
		}

		if err := config.Storage.Set(key, b, config.Lifetime); err != nil {
			log.Error().
				Str("evt.name", "http.idempotency.response.save.failed").
				Err(err).
				Msg("error saving the idempotency response.")
			return nil
		}

		c.Set(constant.IdempotencyHeader, "saved")
		return nil
	}
}

func marshalResponse(c *fiber.Ctx, conf IdempotencyConfig) ([]byte, error) {
	response := idempotencyResponse{
		StatusCode: c.Response().StatusCode(),
		Headers:    make(map[string]string, len(conf.KeepResponseHeaders)),
		Body:       c.Response().Body(),
	}
	for _, header := range conf.KeepResponseHeaders {
		if v := c.Response().Header.Peek(header); len(v) > 0 {
			response.Headers[header] = string(v)
		}
	}
	return msgpack.Marshal(response)
}

func replay(c *fiber.Ctx, conf IdempotencyConfig, key string) (bool, error) {
	b, err := conf.Storage.Get(key)
	if err != nil || b == nil {
		return false, nil
	}

	var response idempotencyResponse
	if err := msgpack.Unmarshal(b, &response); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("corrupted idempotency response; processing request again")
		return false, nil
	}

	if l := log.Debug(); l.Enabled() {
		l.Str("evt.name", "http.idempotency.hit").Str("key", key).Msg("idempotency key found in storage")
	}

	c.Status(response.StatusCode)
	for header, value := range response.Headers {
		c.Set(header, value)
	}
	c.Set(constant.IdempotencyHeader, "hit")
	return true, c.Send(response.Body)
}
