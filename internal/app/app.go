package app

import (
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/app/appcontext"
	"zonefinder.dev/backend/internal/controller"
	"zonefinder.dev/backend/internal/infra"
	"zonefinder.dev/backend/internal/model/cache"
	"zonefinder.dev/backend/internal/pkg/logger"
	"zonefinder.dev/backend/internal/repo"
	"zonefinder.dev/backend/internal/server"
	"zonefinder.dev/backend/internal/service"
	"zonefinder.dev/backend/internal/workers/addresswkr"
)

// Options returns the fx graph of the backend. additionalOpts are appended
// last, so they can invoke anything provided by the graph.
func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)
	log.Info().
		Str("evt.name", "app.init").
		Stringer("env", ctx.Env).
		Bool("devMode", conf.DevMode).
		Msg("building app graph")

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Infrastructures; also initializes sentry, tracing and the profiler
		infra.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),
	}

	if ctx.Env == appcontext.EnvServer {
		baseOpts = append(baseOpts,
			// Servers
			server.Module(),

			// Global Singleton Inits: Keep those before controllers to ensure they are initialized
			// before controllers are registered.
			fx.Invoke(cache.Initialize),

			// Controllers are fx#Invoke functions, called in the order of their registration
			controller.Module(),

			// Workers
			fx.Invoke(addresswkr.Start),
		)
	}

	baseOpts = append(baseOpts,
		// fx Extra Options
		fx.StartTimeout(30*time.Second),
		// StopTimeout is not typically needed, since we're using fiber's Shutdown(),
		// in which fiber has its own IdleTimeout for controlling the shutdown timeout.
		// It acts as a countermeasure in case the fiber app is not properly shutting down.
		fx.StopTimeout(5*time.Minute),
	)

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
