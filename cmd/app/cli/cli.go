package cli

import (
	"context"

	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app"
	"zonefinder.dev/backend/internal/app/appcontext"
)

// Run starts the backend graph without the HTTP server, runs the invoked
// module and stops the graph again.
func Run(ctx context.Context, module fx.Option) error {
	a := app.New(appcontext.Declare(appcontext.EnvCLI), module)
	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Stop(context.Background())
}
