package client

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"zonefinder.dev/backend/internal/geolocation"
	"zonefinder.dev/backend/internal/mapsync"
	"zonefinder.dev/backend/internal/mapview"
	"zonefinder.dev/backend/internal/model"
)

func mapCommand() *cli.Command {
	return &cli.Command{
		Name:  "map",
		Usage: "load the zones onto a map and print its markers as GeoJSON",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "locate", Usage: "center the map on the current position"},
			&cli.Int64Flag{Name: "select", Usage: "select the zone with this id"},
			&cli.IntFlag{Name: "retries", Value: 1, Usage: "retries of a failed map load"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}

			sync, binding := e.synchronizer()
			defer sync.Close()

			if err := sync.Initialize(c.Context); err != nil {
				log.Warn().Err(err).Msg(mapsync.LoadFailedMessage)
			}
			for i := 0; i < c.Int("retries") && binding.State() == mapview.StateFailed; i++ {
				if err := sync.RetryMap(c.Context); err != nil {
					log.Warn().Err(err).Int("attempt", i+1).Msg("map is still unavailable")
				}
			}

			if c.Bool("locate") {
				res, err := e.locator.Locate(c.Context, geolocation.LocateOptions)
				if err != nil {
					fmt.Fprintln(c.App.ErrWriter, LocateFailedMessage)
				} else {
					sync.Recenter(res.Latitude, res.Longitude)
				}
			}
			if c.IsSet("select") {
				if !sync.SelectMarker(&model.Zone{ID: c.Int64("select")}) {
					log.Warn().Int64("zoneId", c.Int64("select")).Msg("no such zone on the map")
				}
			}

			st := sync.Snapshot()
			log.Info().
				Str("status", string(st.Status)).
				Str("map", st.Map.String()).
				Int("markers", st.MarkerCount).
				Msg("map synchronized")
			if st.Selected != nil {
				fmt.Fprintf(c.App.ErrWriter, "%s (%s)\n", st.Selected.Address, st.Selected.Description)
			}

			m, ok := binding.Map()
			if !ok {
				return cli.Exit("map is unavailable: "+binding.Err().Error(), 1)
			}
			return printJSON(c, m.(*mapview.HeadlessMap).GeoJSON())
		},
	}
}
