package infra

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/pkg/bininfo"
	"zonefinder.dev/backend/internal/pkg/observability"
)

func newExporter(name string) (sdktrace.SpanExporter, error) {
	switch name {
	case "jaeger":
		return jaeger.New(jaeger.WithCollectorEndpoint())
	case "otlp":
		return otlptracegrpc.New(context.Background())
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	default:
		return nil, errors.Errorf("unknown tracing exporter %q", name)
	}
}

func Tracing(conf *appconfig.Config, lc fx.Lifecycle) error {
	if !conf.TracingEnabled {
		log.Info().
			Str("evt.name", "infra.tracing.disabled").
			Msg("tracing is disabled")
		return nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(conf.TracingSampleRate))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(observability.ServiceName),
			semconv.ServiceVersionKey.String(bininfo.Version),
		)),
	}
	for _, name := range conf.TracingExporters {
		exporter, err := newExporter(name)
		if err != nil {
			return errors.Wrap(err, "infra: tracing")
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return nil
}
