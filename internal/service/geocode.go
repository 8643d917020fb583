package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/geolocation"
	"zonefinder.dev/backend/internal/model"
	modelcache "zonefinder.dev/backend/internal/model/cache"
	"zonefinder.dev/backend/internal/pkg/cache"
	"zonefinder.dev/backend/internal/pkg/geo"
	"zonefinder.dev/backend/internal/pkg/observability"
)

type Geocode struct {
	geocoder geolocation.ReverseGeocoder
	ttl      time.Duration
	group    singleflight.Group
}

func NewGeocode(conf *appconfig.Config) *Geocode {
	return &Geocode{
		geocoder: geolocation.NewNominatim(conf.NominatimURL),
		ttl:      conf.NominatimCacheTTL,
	}
}

// Reverse resolves coordinates into an address. Resolved addresses are cached
// per ~11m cell; lookups for the same cell in flight are collapsed into one
// upstream request. An upstream failure is not an error: the result then
// carries the formatted coordinates and is marked approximate.
func (s *Geocode) Reverse(ctx context.Context, lat, lng float64) (*model.ReverseGeocodeResult, error) {
	key := geo.CacheKey(lat, lng)

	var cached model.ReverseGeocodeResult
	err := modelcache.ReverseGeocode.Get(ctx, key, &cached)
	if err == nil {
		observability.ReverseGeocodeCache.WithLabelValues("hit").Inc()
		cached.Latitude, cached.Longitude = lat, lng
		return &cached, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		log.Warn().Err(err).Str("key", key).Msg("reverse geocode cache unavailable")
	}
	observability.ReverseGeocodeCache.WithLabelValues("miss").Inc()

	v, err, _ := s.group.Do(key, func() (any, error) {
		start := time.Now()
		address, err := s.geocoder.Reverse(ctx, lat, lng)
		if err != nil {
			observability.ReverseGeocodeDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			return nil, err
		}
		observability.ReverseGeocodeDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

		result := model.ReverseGeocodeResult{Latitude: lat, Longitude: lng, Address: address}
		if err := modelcache.ReverseGeocode.Set(ctx, key, result, s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache reverse geocode result")
		}
		return result, nil
	})
	if err != nil {
		log.Debug().Err(err).
			Str("evt.name", "geocode.reverse.failed").
			Float64("lat", lat).
			Float64("lng", lng).
			Msg("reverse geocoding failed, answering with coordinates")
		return &model.ReverseGeocodeResult{
			Latitude:    lat,
			Longitude:   lng,
			Address:     geo.FormatCoordinates(lat, lng),
			Approximate: true,
		}, nil
	}

	result := v.(model.ReverseGeocodeResult)
	result.Latitude, result.Longitude = lat, lng
	return &result, nil
}
