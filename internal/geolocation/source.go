package geolocation

import (
	"context"
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/pkg/errors"

	"zonefinder.dev/backend/internal/model"
)

// Static always answers with the same position, or with Err when set.
type Static struct {
	Position Position
	Err      error
}

func (s Static) CurrentPosition(ctx context.Context) (Position, error) {
	if s.Err != nil {
		return Position{}, s.Err
	}
	pos := s.Position
	pos.Timestamp = time.Now()
	return pos, nil
}

// Denied is a source whose user refused to share the position.
var Denied = Static{Err: ErrPermissionDenied}

// ApproximatePositioner is implemented by the zonefinder API client.
type ApproximatePositioner interface {
	ApproximatePosition(ctx context.Context) (*model.ApproximatePosition, error)
}

// APISource asks the zonefinder backend to locate the caller by its IP address.
type APISource struct {
	API ApproximatePositioner
}

func (s APISource) CurrentPosition(ctx context.Context) (Position, error) {
	p, err := s.API.ApproximatePosition(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Position{}, err
		}
		return Position{}, errors.Wrap(ErrUnavailable, err.Error())
	}
	return Position{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Accuracy:  float64(p.AccuracyRadius) * 1000,
	}, nil
}

// GeoIPLookup resolves ip with a GeoIP2 City database.
func GeoIPLookup(db *geoip2.Reader, ip net.IP) (*model.ApproximatePosition, error) {
	if db == nil {
		return nil, ErrUnavailable
	}
	if ip == nil {
		return nil, errors.Wrap(ErrUnavailable, "invalid ip")
	}

	city, err := db.City(ip)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	if city.Location.Latitude == 0 && city.Location.Longitude == 0 {
		return nil, errors.Wrap(ErrUnavailable, "no location for ip")
	}

	name := city.City.Names["ko"]
	if name == "" {
		name = city.City.Names["en"]
	}
	return &model.ApproximatePosition{
		Latitude:       city.Location.Latitude,
		Longitude:      city.Location.Longitude,
		AccuracyRadius: city.Location.AccuracyRadius,
		City:           name,
		Country:        city.Country.IsoCode,
	}, nil
}

// GeoIPSource locates a fixed IP address with a local GeoIP2 City database.
type GeoIPSource struct {
	DB *geoip2.Reader
	IP net.IP
}

func (s GeoIPSource) CurrentPosition(ctx context.Context) (Position, error) {
	p, err := GeoIPLookup(s.DB, s.IP)
	if err != nil {
		return Position{}, err
	}
	return Position{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Accuracy:  float64(p.AccuracyRadius) * 1000,
	}, nil
}
