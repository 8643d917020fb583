package server

import (
	"context"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app"
	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/app/appcontext"
	"zonefinder.dev/backend/internal/repo"
)

// Run serves until the process is signalled. With migrate, the schema is
// ensured before the listener opens.
func Run(migrate bool) {
	opts := []fx.Option{}
	if migrate {
		opts = append(opts, fx.Invoke(ensureSchema))
	}
	opts = append(opts, fx.Invoke(run))
	app.New(appcontext.Declare(appcontext.EnvServer), opts...).Run()
}

func ensureSchema(db *bun.DB, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Str("evt.name", "server.migrate").Msg("ensuring database schema")
			return repo.EnsureSchema(ctx, db)
		},
	})
}

func run(serverApp *fiber.App, conf *appconfig.Config, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", conf.ServiceAddress)
			if err != nil {
				return err
			}
			log.Info().
				Str("evt.name", "server.listening").
				Str("address", conf.ServiceAddress).
				Msg("server is listening")

			go func() {
				if err := serverApp.Listener(ln); err != nil {
					log.Error().Err(err).Msg("server terminated unexpectedly")
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Str("evt.name", "server.shutdown").Msg("shutting down server")
			return serverApp.ShutdownWithTimeout(conf.HTTPServerShutdownTimeout)
		},
	})
}
