package client

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"zonefinder.dev/backend/internal/geolocation"
)

// LocateFailedMessage is printed when the current position cannot be determined.
const LocateFailedMessage = "현재 위치를 가져올 수 없습니다."

func locateCommand() *cli.Command {
	return &cli.Command{
		Name:  "locate",
		Usage: "print the current position and its address",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}

			res, err := e.locator.Locate(c.Context, geolocation.LocateOptions)
			if err != nil {
				log.Debug().Err(err).Str("evt.name", "client.locate.failed").Msg("failed to locate")
				return cli.Exit(LocateFailedMessage, 1)
			}

			fmt.Fprintf(c.App.Writer, "%.6f, %.6f\n%s\n", res.Latitude, res.Longitude, res.Address)
			return nil
		},
	}
}
