// Package zoneclient talks to the zonefinder REST API.
package zoneclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/pkg/bininfo"
)

// MaxResponseBytes bounds how much of a response body is read.
const MaxResponseBytes = 4 << 20

var ErrResponseTooLarge = errors.New("zoneclient: response body too large")

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	// Code and Message are filled from the JSON error body when the server sent one.
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource authenticates requests with the bearer token of ts.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New returns a client for the API served under baseURL + "/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/api",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		tokens: StaticToken(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	headers     map[string]string
}

func jsonRequest(method, path string, v any) (*request, error) {
	r := &request{method: method, path: path}
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		r.body = bytes.NewReader(b)
		r.contentType = "application/json"
	}
	return r, nil
}

// do sends r and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, r *request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", bininfo.UserAgent())
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return errors.Wrap(err, "read access token")
	}
	if token != "" {
		req.Header.Set("Authorization", constant.BearerRealm+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return errors.Wrap(err, "read response body")
	}
	if len(body) > MaxResponseBytes {
		return errors.Wrapf(ErrResponseTooLarge, "%s %s", r.method, r.path)
	}

	log.Debug().
		Str("evt.name", "zoneclient.request").
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request finished")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := &APIError{StatusCode: resp.StatusCode}
		if gjson.ValidBytes(body) {
			ae.Code = gjson.GetBytes(body, "code").String()
			ae.Message = gjson.GetBytes(body, "message").String()
		}
		return ae
	}

	if out == nil || len(body) == 0 || !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		return nil
	}
	return json.Unmarshal(body, out)
}
