package infra

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/constant"
)

func NATS(conf *appconfig.Config, lc fx.Lifecycle) (*nats.Conn, nats.JetStreamContext, error) {
	errorHandler := func(conn *nats.Conn, sub *nats.Subscription, err error) {
		e := log.Error().
			Str("evt.name", "nats.error").
			Err(err).
			Str("conn.url", conn.ConnectedUrlRedacted())
		if sub != nil {
			e = e.Str("sub.subject", sub.Subject)
		}
		e.Msg("nats error")
	}

	nc, err := nats.Connect(conf.NatsURL, nats.Name("zonefinder"), nats.PingInterval(time.Second*20), nats.ErrorHandler(errorHandler))
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to connect to NATS")
		return nil, nil, err
	}

	js, err := nc.JetStream(nats.PublishAsyncMaxPending(128))
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to initialize NATS JetStream")
		return nil, nil, err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name: constant.ZoneEventStream,
		Subjects: []string{
			constant.ZoneEventSubjectPrefix + "*",
		},
		Retention:  nats.LimitsPolicy,
		Discard:    nats.DiscardOld,
		Storage:    nats.FileStorage,
		MaxAge:     time.Hour * 24 * 7,
		Replicas:   1,
		Duplicates: time.Minute * 10,
	})
	if err != nil {
		log.Warn().Err(err).Msg("infra: nats: failed to create jetstream stream: is it already created?")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			select {
			case <-js.PublishAsyncComplete():
			case <-ctx.Done():
			}
			return nc.Drain()
		},
	})

	return nc, js, nil
}
