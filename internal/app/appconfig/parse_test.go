package appconfig

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonefinder.dev/backend/internal/app/appcontext"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("ZONEFINDER_POSTGRES_DSN", "postgres://zf:zf@localhost:5432/zonefinder?sslmode=disable")

	conf, err := Parse(appcontext.Declare(appcontext.EnvServer))
	require.NoError(t, err)

	assert.Equal(t, "localhost:9010", conf.ServiceAddress)
	assert.Equal(t, float64(1000), conf.ZoneDefaultRadius)
	assert.Equal(t, 24*time.Hour, conf.NominatimCacheTTL)
	assert.Equal(t, []string{"otlp"}, conf.TracingExporters)
	assert.Equal(t, appcontext.EnvServer, conf.AppContext.Env)
}

func TestParseMissingDSN(t *testing.T) {
	t.Setenv("ZONEFINDER_POSTGRES_DSN", "unused")
	require.NoError(t, os.Unsetenv("ZONEFINDER_POSTGRES_DSN"))

	_, err := Parse(appcontext.Declare(appcontext.EnvServer))
	assert.Error(t, err)
}

func TestParseClient(t *testing.T) {
	t.Setenv("ZONEFINDER_CLIENT_API_URL", "http://zones.example:8080")
	t.Setenv("ZONEFINDER_CLIENT_FALLBACK_ZONES", "false")

	spec, err := ParseClient()
	require.NoError(t, err)

	assert.Equal(t, "http://zones.example:8080", spec.APIURL)
	assert.False(t, spec.FallbackZones)
	assert.Equal(t, 15*time.Second, spec.RequestTimeout)
}
