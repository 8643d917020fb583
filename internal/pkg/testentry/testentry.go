// Package testentry boots the backend graph for integration tests that need
// the real Postgres, Redis and NATS instances from the environment.
package testentry

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app"
	"zonefinder.dev/backend/internal/app/appcontext"
)

// EnvIntegration must be set for Populate to run; otherwise the test is skipped.
const EnvIntegration = "ZONEFINDER_INTEGRATION"

func Populate(t testing.TB, targets ...any) {
	t.Helper()
	if os.Getenv(EnvIntegration) == "" {
		t.Skipf("set %s to run integration tests", EnvIntegration)
	}

	opts := app.Options(appcontext.Declare(appcontext.EnvCLI),
		fx.Populate(targets...),
		fx.Invoke(func() {
			log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
		}),
		// for testing, the fx event log is too noisy
		fx.NopLogger,
	)
	a := fx.New(opts...)

	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(func() {
		_ = a.Stop(context.Background())
	})
}
