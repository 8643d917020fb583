package model

// ApproximatePosition is the coarse position of a caller resolved from its IP address.
type ApproximatePosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// AccuracyRadius in kilometers, as reported by the GeoIP database.
	AccuracyRadius uint16 `json:"accuracyRadius"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
}

type ReverseGeocodeQuery struct {
	Latitude  float64 `query:"lat" validate:"latitude"`
	Longitude float64 `query:"lng" validate:"longitude"`
}

type ReverseGeocodeResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	// Approximate is true when no address could be resolved and Address holds the coordinates.
	Approximate bool `json:"approximate"`
}
