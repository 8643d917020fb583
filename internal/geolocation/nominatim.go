package geolocation

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"

	"zonefinder.dev/backend/internal/pkg/bininfo"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

var ErrNoAddress = errors.New("geolocation: no address for coordinates")

// Nominatim is a ReverseGeocoder backed by an OpenStreetMap Nominatim instance.
type Nominatim struct {
	BaseURL  string
	Language language.Tag
	Client   *http.Client
}

func NewNominatim(baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Nominatim{
		BaseURL:  baseURL,
		Language: language.Korean,
		Client: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("accept-language", n.Language.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	// the public instance rejects requests without an identifying agent
	req.Header.Set("User-Agent", bininfo.UserAgent())

	resp, err := n.Client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "nominatim: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("nominatim: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "nominatim: read body")
	}

	name := gjson.GetBytes(body, "display_name")
	if !name.Exists() || name.String() == "" {
		return "", ErrNoAddress
	}
	return name.String(), nil
}
