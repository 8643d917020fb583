package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"zonefinder.dev/backend/cmd/app/cli/migrate"
	"zonefinder.dev/backend/cmd/app/client"
	"zonefinder.dev/backend/cmd/app/server"
	"zonefinder.dev/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "zonefinder",
		Description: "Smoking zone finder. Serves the zone API with fiber, bun and go.uber.org/fx, and drives the map and zone form against it from the command line.",
		Version:     bininfo.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output of client commands"},
		},
		Commands: append([]*cli.Command{
			server.Command(),
			migrate.Command(),
		}, client.Commands()...),
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
