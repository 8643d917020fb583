package mapview

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"zonefinder.dev/backend/internal/pkg/bininfo"
)

// ProbeLoader verifies that the tile source answers before handing out the
// library from Next. An unreachable tile server fails the load.
type ProbeLoader struct {
	Tiles  TileLayer
	Client *http.Client
	Next   Loader
}

// TileURL expands a tile template for a single tile.
func TileURL(t TileLayer, z, x, y int) string {
	sub := "a"
	if t.Subdomains != "" {
		sub = t.Subdomains[:1]
	}
	r := strings.NewReplacer(
		"{s}", sub,
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{r}", "",
	)
	return r.Replace(t.URLTemplate)
}

func (p ProbeLoader) Load(ctx context.Context) (Library, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, TileURL(p.Tiles, 0, 0, 0), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build tile probe")
	}
	req.Header.Set("User-Agent", bininfo.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "probe tile source")
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("probe tile source: unexpected status %d", resp.StatusCode)
	}

	return p.Next.Load(ctx)
}
