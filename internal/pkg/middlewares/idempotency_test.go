package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonefinder.dev/backend/internal/constant"
)

type memoryStorage struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (s *memoryStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memoryStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = val
	return nil
}

func (s *memoryStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memoryStorage) Reset() error { return nil }
func (s *memoryStorage) Close() error { return nil }

func localLock() LockFunc {
	var mu sync.Mutex
	return func(string) (func(), error) {
		mu.Lock()
		return mu.Unlock, nil
	}
}

func TestIdempotency(t *testing.T) {
	var created atomic.Int32

	app := fiber.New()
	app.Post("/zones", Idempotency(IdempotencyConfig{
		Lifetime:  time.Hour,
		KeyHeader: constant.IdempotencyKeyHeader,
		Storage:   &memoryStorage{m: map[string][]byte{}},
		Lock:      localLock(),
	}), func(c *fiber.Ctx) error {
		n := created.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": n})
	})

	send := func(key string) (int, string, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/zones", strings.NewReader(`{}`))
		if key != "" {
			req.Header.Set(constant.IdempotencyKeyHeader, key)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, resp.Header.Get(constant.IdempotencyHeader), string(b)
	}

	t.Run("initial request", func(t *testing.T) {
		status, marker, body := send("abc123")
		assert.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "saved", marker)
		assert.JSONEq(t, `{"id":1}`, body)
	})

	t.Run("duplicate request", func(t *testing.T) {
		status, marker, body := send("abc123")
		assert.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "hit", marker)
		assert.JSONEq(t, `{"id":1}`, body)
		assert.EqualValues(t, 1, created.Load())
	})

	t.Run("no key", func(t *testing.T) {
		_, marker, _ := send("")
		assert.Empty(t, marker)
		assert.EqualValues(t, 2, created.Load())
	})

	t.Run("invalid key", func(t *testing.T) {
		status, _, _ := send("not-alpha-num!")
		assert.NotEqual(t, fiber.StatusCreated, status)
		assert.EqualValues(t, 2, created.Load())
	})
}
