package zoneclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
)

// ListQuery narrows ListZones to a circle. Radius is in meters.
type ListQuery struct {
	Latitude  *float64
	Longitude *float64
	Radius    *float64
}

func (q *ListQuery) encode() string {
	if q == nil {
		return ""
	}
	v := url.Values{}
	set := func(key string, f *float64) {
		if f != nil {
			v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
		}
	}
	set("latitude", q.Latitude)
	set("longitude", q.Longitude)
	set("radius", q.Radius)
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

type callOptions struct {
	idempotencyKey string
}

type CallOption func(*callOptions)

// WithIdempotencyKey makes the server replay the first response for
// repeated submissions carrying the same key.
func WithIdempotencyKey(key string) CallOption {
	return func(o *callOptions) { o.idempotencyKey = key }
}

// IdempotencyKeyOf returns the key carried by opts, if any.
func IdempotencyKeyOf(opts ...CallOption) string {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o.idempotencyKey
}

func (c *Client) ListZones(ctx context.Context, q *ListQuery) ([]model.Zone, error) {
	r, _ := jsonRequest(http.MethodGet, "/zones"+q.encode(), nil)
	var zones []model.Zone
	if err := c.do(ctx, r, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *Client) GetZone(ctx context.Context, id int64) (*model.Zone, error) {
	r, _ := jsonRequest(http.MethodGet, "/zones/"+strconv.FormatInt(id, 10), nil)
	var zone model.Zone
	if err := c.do(ctx, r, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (c *Client) sendZone(ctx context.Context, method, path string, req model.ZoneRequest, img *Image, opts []CallOption) (*model.Zone, error) {
	key := IdempotencyKeyOf(opts...)

	body, contentType, err := multipartBody(req, img)
	if err != nil {
		return nil, err
	}
	r := &request{method: method, path: path, body: body, contentType: contentType}
	if key != "" {
		r.headers = map[string]string{constant.IdempotencyKeyHeader: key}
	}

	var zone model.Zone
	if err := c.do(ctx, r, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// CreateZone submits a new zone as multipart form data, with img as an optional photo.
func (c *Client) CreateZone(ctx context.Context, req model.ZoneRequest, img *Image, opts ...CallOption) (*model.Zone, error) {
	return c.sendZone(ctx, http.MethodPost, "/zones", req, img, opts)
}

func (c *Client) UpdateZone(ctx context.Context, id int64, req model.ZoneRequest, img *Image) (*model.Zone, error) {
	return c.sendZone(ctx, http.MethodPut, "/zones/"+strconv.FormatInt(id, 10), req, img, nil)
}

func (c *Client) DeleteZone(ctx context.Context, id int64) error {
	r, _ := jsonRequest(http.MethodDelete, "/zones/"+strconv.FormatInt(id, 10), nil)
	return c.do(ctx, r, nil)
}
