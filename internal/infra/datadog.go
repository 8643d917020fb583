package infra

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/pkg/bininfo"
	"zonefinder.dev/backend/internal/pkg/observability"
)

func profilerOptions(conf *appconfig.Config) []profiler.Option {
	opts := []profiler.Option{
		profiler.WithService(observability.ServiceName),
		profiler.WithEnv(lo.Ternary(conf.DevMode, "dev", "prod")),
		profiler.WithVersion(bininfo.Version),
		profiler.WithTags("component:api"),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
			profiler.GoroutineProfile,
		),
	}
	if conf.DatadogProfilerAgentAddress != "" {
		opts = append(opts, profiler.WithAgentAddr(conf.DatadogProfilerAgentAddress))
	}
	return opts
}

// Datadog runs the continuous profiler for the lifetime of the app. A profiler
// that fails to start is logged and otherwise ignored.
func Datadog(conf *appconfig.Config, lc fx.Lifecycle) {
	if conf.DevMode || !conf.DatadogProfilerEnabled {
		log.Info().
			Str("evt.name", "infra.datadog.disabled").
			Bool("devMode", conf.DevMode).
			Msg("datadog profiler is disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := profiler.Start(profilerOptions(conf)...); err != nil {
				log.Error().
					Err(err).
					Str("evt.name", "infra.datadog.error").
					Msg("datadog profiler failed to start")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			profiler.Stop()
			return nil
		},
	})
}
