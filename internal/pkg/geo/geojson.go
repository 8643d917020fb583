package geo

import (
	"github.com/paulmach/orb/geojson"
)

// Feature builds a point feature with the given properties.
func Feature(lat, lng float64, props map[string]any) *geojson.Feature {
	f := geojson.NewFeature(Point(lat, lng))
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

// Collection wraps features into a FeatureCollection.
func Collection(features ...*geojson.Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f)
	}
	return fc
}
