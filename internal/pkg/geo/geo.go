// Package geo holds the small amount of geodesy zonefinder needs, on top of paulmach/orb.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Point builds an orb point from latitude/longitude. orb orders coordinates as [lon, lat].
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// DistanceMeters is the great circle distance between two coordinates.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return geo.Distance(Point(lat1, lng1), Point(lat2, lng2))
}

// Bounds is an axis aligned box used to prefilter rows in SQL before the exact distance check.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundsAround returns the box enclosing the circle of radius meters around (lat, lng).
func BoundsAround(lat, lng, radius float64) Bounds {
	b := geo.NewBoundAroundPoint(Point(lat, lng), radius)
	return Bounds{
		MinLat: b.Min.Lat(),
		MaxLat: b.Max.Lat(),
		MinLng: b.Min.Lon(),
		MaxLng: b.Max.Lon(),
	}
}

// Within reports whether (lat, lng) lies inside the circle of radius meters around the center.
func Within(centerLat, centerLng, radius, lat, lng float64) bool {
	return DistanceMeters(centerLat, centerLng, lat, lng) <= radius
}

// FormatCoordinates renders coordinates the way an address placeholder is shown
// when reverse geocoding is unavailable.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

// CacheKey rounds coordinates to roughly 11m so nearby lookups share a cache entry.
func CacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f:%.4f", lat, lng)
}
