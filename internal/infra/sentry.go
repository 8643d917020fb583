package infra

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/pkg/bininfo"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

// SentryInit initializes the global sentry hub. Client errors (4xx) that
// reach the hub are dropped.
func SentryInit(conf *appconfig.Config) error {
	if conf.SentryDSN == "" {
		log.Warn().Str("evt.name", "infra.sentry.disabled").Msg("sentry is disabled due to missing DSN")
		return nil
	}

	log.Info().Str("evt.name", "infra.sentry.init").Msg("initializing sentry")
	return sentry.Init(sentry.ClientOptions{
		Dsn:              conf.SentryDSN,
		Release:          "zonefinder@" + bininfo.Version,
		Environment:      lo.Ternary(conf.DevMode, "dev", "prod"),
		Debug:            conf.DevMode,
		AttachStacktrace: true,
		TracesSampleRate: conf.TracingSampleRate,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			var zerr *zferr.Error
			if hint != nil && hint.OriginalException != nil &&
				errors.As(hint.OriginalException, &zerr) && zerr.StatusCode < 500 {
				return nil
			}
			return event
		},
	})
}
