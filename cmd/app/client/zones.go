package client

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"zonefinder.dev/backend/internal/client/zoneclient"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/zoneform"
)

func zonesCommand() *cli.Command {
	return &cli.Command{
		Name:  "zones",
		Usage: "list and add smoking zones",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list zones, optionally within a radius around a point",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "lat", Usage: "center latitude"},
					&cli.Float64Flag{Name: "lng", Usage: "center longitude"},
					&cli.Float64Flag{Name: "radius", Usage: "radius in meters"},
					&cli.BoolFlag{Name: "json", Usage: "print JSON"},
				},
				Action: listZones,
			},
			{
				Name:  "add",
				Usage: "add a zone through the zone form",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "region"},
					&cli.StringFlag{Name: "type"},
					&cli.StringFlag{Name: "subtype"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "lat", Usage: "latitude, defaults to the current position"},
					&cli.StringFlag{Name: "lng", Usage: "longitude, defaults to the current position"},
					&cli.StringFlag{Name: "size"},
					&cli.StringFlag{Name: "address"},
					&cli.StringFlag{Name: "user"},
					&cli.StringFlag{Name: "image-url", Usage: "URL of an already hosted photo"},
					&cli.PathFlag{Name: "image", Usage: "photo file to upload"},
				},
				Action: addZone,
			},
		},
	}
}

func listZones(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	var q *zoneclient.ListQuery
	if c.IsSet("lat") || c.IsSet("lng") {
		q = &zoneclient.ListQuery{
			Latitude:  lo.ToPtr(c.Float64("lat")),
			Longitude: lo.ToPtr(c.Float64("lng")),
		}
		if c.IsSet("radius") {
			q.Radius = lo.ToPtr(c.Float64("radius"))
		}
	}

	zones, err := e.api.ListZones(c.Context, q)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c, zones)
	}
	return printZones(c, zones)
}

func printZones(c *cli.Context, zones []model.Zone) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREGION\tTYPE\tSIZE\tLAT\tLNG\tADDRESS")
	for _, z := range zones {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.6f\t%.6f\t%s\n", z.ID, z.Region, z.Type, z.Size, z.Latitude, z.Longitude, z.Address)
	}
	return w.Flush()
}

func addZone(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	sync, _ := e.synchronizer()
	defer sync.Close()
	if err := sync.Initialize(c.Context); err != nil {
		log.Warn().Err(err).Msg("showing the map without the zone list")
	}

	form := zoneform.New(e.api, e.locator, sync)
	<-form.Open(c.Context)

	err = form.Update(func(f *zoneform.Fields) {
		set := func(name string, dst *string) {
			if c.IsSet(name) {
				*dst = c.String(name)
			}
		}
		set("region", &f.Region)
		set("type", &f.Type)
		set("subtype", &f.Subtype)
		set("description", &f.Description)
		set("lat", &f.Latitude)
		set("lng", &f.Longitude)
		set("size", &f.Size)
		set("address", &f.Address)
		set("user", &f.User)
		set("image-url", &f.Image)
		set("image", &f.ImagePath)
	})
	if err != nil {
		return err
	}

	zone, err := form.Submit(c.Context)
	if err != nil {
		msg := form.State().Error
		_ = form.Cancel()
		return cli.Exit(msg, 1)
	}

	st := sync.Snapshot()
	log.Info().Int("markers", st.MarkerCount).Msg("zone placed on the map")
	return printJSON(c, zone)
}
