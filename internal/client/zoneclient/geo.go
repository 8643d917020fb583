package zoneclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"zonefinder.dev/backend/internal/model"
)

// ApproximatePosition asks the backend where the caller's IP address is.
func (c *Client) ApproximatePosition(ctx context.Context) (*model.ApproximatePosition, error) {
	r, _ := jsonRequest(http.MethodGet, "/geo/locate", nil)
	var pos model.ApproximatePosition
	if err := c.do(ctx, r, &pos); err != nil {
		return nil, err
	}
	return &pos, nil
}

func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*model.ReverseGeocodeResult, error) {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	v.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	r, _ := jsonRequest(http.MethodGet, "/geo/reverse?"+v.Encode(), nil)
	var result model.ReverseGeocodeResult
	if err := c.do(ctx, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reverse makes the client usable as a geolocation.ReverseGeocoder.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	result, err := c.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return "", err
	}
	return result.Address, nil
}
