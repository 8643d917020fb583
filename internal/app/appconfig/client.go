package appconfig

import "time"

// ClientSpec configures the command line client that drives the map, form and
// location controllers against a running backend.
type ClientSpec struct {
	// APIURL is the base URL of the backend. The client appends /api to it.
	APIURL string `envconfig:"API_URL" default:"http://localhost:9010"`

	// TokenFile is where the bearer token for the /users/me endpoints is stored.
	TokenFile string `split_words:"true" default:".zonefinder/access_token"`

	// RequestTimeout bounds every HTTP round trip of the client.
	RequestTimeout time.Duration `split_words:"true" default:"15s"`

	// FallbackZones seeds demo zones when the initial zone listing fails.
	FallbackZones bool `split_words:"true" default:"true"`

	// TileProbe makes the map binding verify the tile source is reachable before it becomes ready.
	TileProbe bool `split_words:"true" default:"false"`

	// NominatimURL is used when reverse geocoding directly instead of through the backend.
	NominatimURL string `split_words:"true" default:"https://nominatim.openstreetmap.org"`

	// DirectGeocoding skips the backend's cached /geo/reverse endpoint.
	DirectGeocoding bool `split_words:"true" default:"false"`
}
