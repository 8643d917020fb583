package migrate

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	appcli "zonefinder.dev/backend/cmd/app/cli"
	"zonefinder.dev/backend/internal/repo"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the database tables and indexes when missing",
		Action: func(c *cli.Context) error {
			return appcli.Run(c.Context, fx.Invoke(func(lc fx.Lifecycle, db *bun.DB) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return repo.EnsureSchema(ctx, db)
					},
				})
			}))
		},
	}
}
