package infra

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedSync hands out distributed mutexes on the shared redis client. Zone
// submissions carrying the same idempotency key are serialized with them.
func RedSync(client *redis.Client) *redsync.Redsync {
	return redsync.New(goredis.NewPool(client))
}
