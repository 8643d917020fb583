// Package client holds the commands that drive the map, form and location
// controllers against a running backend.
package client

import (
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/client/zoneclient"
	"zonefinder.dev/backend/internal/geolocation"
	"zonefinder.dev/backend/internal/mapsync"
	"zonefinder.dev/backend/internal/mapview"
	"zonefinder.dev/backend/internal/pkg/logger"
)

type env struct {
	conf    *appconfig.ClientSpec
	tokens  zoneclient.FileTokenStore
	api     *zoneclient.Client
	locator *geolocation.Adapter
}

func newEnv(c *cli.Context) (*env, error) {
	logger.ConfigureCLI(c.Bool("verbose"))

	conf, err := appconfig.ParseClient()
	if err != nil {
		return nil, err
	}

	tokens := zoneclient.FileTokenStore{Path: conf.TokenFile}
	api := zoneclient.New(conf.APIURL,
		zoneclient.WithTimeout(conf.RequestTimeout),
		zoneclient.WithTokenSource(tokens))

	var geocoder geolocation.ReverseGeocoder = api
	if conf.DirectGeocoding {
		geocoder = geolocation.NewNominatim(conf.NominatimURL)
	}

	return &env{
		conf:    conf,
		tokens:  tokens,
		api:     api,
		locator: geolocation.New(geolocation.APISource{API: api}, geocoder),
	}, nil
}

func (e *env) loader() mapview.Loader {
	lib := mapview.Headless()
	if !e.conf.TileProbe {
		return lib
	}
	return mapview.ProbeLoader{Tiles: mapview.DarkTiles, Next: lib}
}

func (e *env) synchronizer() (*mapsync.Synchronizer, *mapview.Binding) {
	binding := mapview.NewBinding(e.loader())
	s := mapsync.New(e.api, binding, mapsync.WithFallbackZones(e.conf.FallbackZones))
	return s, binding
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Commands lists the client commands.
func Commands() []*cli.Command {
	return []*cli.Command{
		zonesCommand(),
		mapCommand(),
		locateCommand(),
		userCommand(),
	}
}
