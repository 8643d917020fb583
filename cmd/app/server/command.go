package server

import "github.com/urfave/cli/v2"

func Command() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "serve the zone API and run the address workers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "migrate",
				Usage:   "create missing tables and indexes before listening",
				EnvVars: []string{"ZONEFINDER_MIGRATE_ON_START"},
			},
		},
		Action: func(c *cli.Context) error {
			Run(c.Bool("migrate"))
			return nil
		},
	}
}
