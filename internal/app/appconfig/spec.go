package appconfig

import (
	"time"

	"zonefinder.dev/backend/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9010"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// LogFile is the path of the rotated log file. Leaving this empty disables file logging.
	LogFile string `split_words:"true" default:"logs/app.log"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic.
	DevMode bool `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: jaeger, otlp, stdout (for debug).
	TracingExporters []string `split_words:"true" default:"otlp"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	// Valid values are: 0.0 (disabled), 1.0 (all traces), or a value between 0.0 and 1.0 (sampling rate).
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// infrastructure components connection instructions

	// PostgresDSN is the data source name for the PostgreSQL database. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	PostgresDSN string `required:"true" split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// NatsURL is the URL of the NATS server. See https://pkg.go.dev/github.com/nats-io/nats.go#Connect
	// for more information on how to construct a NATS URL.
	NatsURL string `required:"true" split_words:"true" default:"nats://127.0.0.1:4222"`

	// RedisURL is the URL of the Redis server. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	// for more information on how to construct a Redis URL.
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/0"`

	// GeoIPDBPath is the path of a MaxMind GeoIP2 (or GeoLite2) City database. Leaving this empty
	// disables IP based position lookups.
	GeoIPDBPath string `split_words:"true"`

	// NominatimURL is the base URL of the reverse geocoding service.
	NominatimURL string `split_words:"true" default:"https://nominatim.openstreetmap.org"`

	// NominatimCacheTTL is how long a reverse geocoded address is kept in redis.
	NominatimCacheTTL time.Duration `split_words:"true" default:"24h"`

	// AddressWorkers is the number of consumers filling in the address of zones
	// submitted without one. Zero disables them.
	AddressWorkers int `split_words:"true" default:"2"`

	// S3Bucket is the bucket zone photos and profile images are stored in.
	// Leaving this empty disables image uploads.
	S3Bucket string `split_words:"true"`

	// S3Region is the region of the bucket.
	S3Region string `split_words:"true" default:"ap-northeast-2"`

	// S3Endpoint overrides the S3 endpoint, e.g. for MinIO. Path style addressing is used when set.
	S3Endpoint string `split_words:"true"`

	S3AccessKey string `split_words:"true"`
	S3SecretKey string `split_words:"true"`

	// ImagePublicURL is the URL prefix uploaded object keys are appended to.
	ImagePublicURL string `split_words:"true"`

	// ImageMaxBytes limits the size of a single uploaded image.
	ImageMaxBytes int `split_words:"true" default:"5242880"`

	// ZoneDefaultRadius is the radius in meters used when a geo filtered listing omits the radius.
	ZoneDefaultRadius float64 `split_words:"true" default:"1000"`

	// IdempotencyLifetime is how long a saved zone creation response is replayed for the same key.
	IdempotencyLifetime time.Duration `split_words:"true" default:"24h"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// DatadogProfilerEnabled to indicate whether to enable Datadog profiler.
	DatadogProfilerEnabled bool `split_words:"true" default:"false"`

	// DatadogProfilerAgentAddress is the address of the Datadog profiler agent.
	DatadogProfilerAgentAddress string `split_words:"true" default:"localhost:8126"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`
}

type Config struct {
	// ConfigSpec is the server configuration injected into the fx graph.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
