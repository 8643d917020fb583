package service

import (
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/pkg/errors"

	"zonefinder.dev/backend/internal/geolocation"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

type GeoIP struct {
	db *geoip2.Reader
}

func NewGeoIP(db *geoip2.Reader) *GeoIP {
	return &GeoIP{
		db: db,
	}
}

// Enabled reports whether a GeoIP database is loaded.
func (s *GeoIP) Enabled() bool {
	return s.db != nil
}

// Locate returns the approximate position of ip.
func (s *GeoIP) Locate(ip string) (*model.ApproximatePosition, error) {
	if s.db == nil {
		return nil, zferr.ErrUnavailable.Msg("ip based positioning is not configured")
	}

	pos, err := geolocation.GeoIPLookup(s.db, net.ParseIP(ip))
	if errors.Is(err, geolocation.ErrUnavailable) {
		return nil, zferr.ErrNotFound.Msg("no position is known for the requesting address")
	}
	return pos, err
}
