package infra

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
)

func Redis(conf *appconfig.Config, lc fx.Lifecycle) (*redis.Client, error) {
	u, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to parse redis url")
		return nil, err
	}

	// Open a Redis Client
	client := redis.NewClient(u)

	// check redis connection
	err = retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			return client.Ping(ctx).Err()
		},
		retry.Attempts(5),
		retry.Delay(time.Second),
	)
	if err != nil {
		log.Error().Err(err).Msg("infra: redis: failed to ping database")
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
