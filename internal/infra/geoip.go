package infra

import (
	"context"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
)

// GeoIPDatabase opens the configured City database. It returns a nil reader
// when no path is configured; position lookups then answer as unavailable.
func GeoIPDatabase(conf *appconfig.Config, lc fx.Lifecycle) (*geoip2.Reader, error) {
	if conf.GeoIPDBPath == "" {
		log.Warn().
			Str("evt.name", "infra.geoip.disabled").
			Msg("geoip database path is empty: ip based positioning is disabled")
		return nil, nil
	}

	db, err := geoip2.Open(conf.GeoIPDBPath)
	if err != nil {
		log.Error().Err(err).Str("path", conf.GeoIPDBPath).Msg("infra: geoip: failed to open database")
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}
