// Package geolocation obtains a one-shot device position and turns it into a
// human readable address.
package geolocation

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"zonefinder.dev/backend/internal/pkg/geo"
)

var (
	ErrPermissionDenied = errors.New("geolocation: permission denied")
	ErrTimeout          = errors.New("geolocation: timed out waiting for a position")
	ErrUnavailable      = errors.New("geolocation: position unavailable")
)

// Position is a single reading of a PositionSource.
type Position struct {
	Latitude  float64
	Longitude float64
	// Accuracy in meters. Zero when unknown.
	Accuracy  float64
	Timestamp time.Time
}

// PositionSource yields the current position once per call.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// ReverseGeocoder resolves coordinates into an address.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

type Options struct {
	// Timeout bounds the wait for the source. Zero waits as long as ctx allows.
	Timeout time.Duration
	// MaximumAge allows a previous reading that is at most this old to be reused.
	MaximumAge time.Duration
}

var (
	// FormOptions is used to prefill the zone form.
	FormOptions = Options{Timeout: 5 * time.Second, MaximumAge: time.Minute}
	// LocateOptions is used when the user explicitly asks for the current position.
	LocateOptions = Options{Timeout: 10 * time.Second, MaximumAge: time.Minute}
)

// Result is a position together with its address.
type Result struct {
	Position
	Address string
	// Approximate is true when Address holds formatted coordinates because reverse geocoding failed.
	Approximate bool
}

type Adapter struct {
	source   PositionSource
	geocoder ReverseGeocoder
	now      func() time.Time

	mu   sync.Mutex
	last *Position
}

type AdapterOption func(*Adapter)

// WithClock replaces time.Now for reading age checks.
func WithClock(now func() time.Time) AdapterOption {
	return func(a *Adapter) { a.now = now }
}

// New builds an Adapter. geocoder may be nil, in which case every address is
// the formatted coordinates.
func New(source PositionSource, geocoder ReverseGeocoder, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		source:   source,
		geocoder: geocoder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) cached(maxAge time.Duration) (Position, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil || maxAge <= 0 {
		return Position{}, false
	}
	if a.now().Sub(a.last.Timestamp) > maxAge {
		return Position{}, false
	}
	return *a.last, true
}

// CurrentPosition returns a reading no older than opts.MaximumAge, asking the
// source when no such reading is cached. It never waits longer than opts.Timeout.
func (a *Adapter) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	if pos, ok := a.cached(opts.MaximumAge); ok {
		return pos, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type reading struct {
		pos Position
		err error
	}
	ch := make(chan reading, 1)
	go func() {
		pos, err := a.source.CurrentPosition(ctx)
		ch <- reading{pos, err}
	}()

	var r reading
	select {
	case r = <-ch:
	case <-ctx.Done():
		r.err = ctx.Err()
	}

	if r.err != nil {
		if errors.Is(r.err, context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, r.err
	}

	if r.pos.Timestamp.IsZero() {
		r.pos.Timestamp = a.now()
	}
	a.mu.Lock()
	last := r.pos
	a.last = &last
	a.mu.Unlock()
	return r.pos, nil
}

// Locate obtains a position and resolves its address on a best-effort basis.
func (a *Adapter) Locate(ctx context.Context, opts Options) (*Result, error) {
	pos, err := a.CurrentPosition(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Position: pos}
	if a.geocoder != nil {
		address, err := a.geocoder.Reverse(ctx, pos.Latitude, pos.Longitude)
		if err == nil {
			result.Address = address
			return result, nil
		}
		log.Debug().Err(err).
			Str("evt.name", "geolocation.reverse.failed").
			Msg("reverse geocoding failed, falling back to coordinates")
	}

	result.Address = geo.FormatCoordinates(pos.Latitude, pos.Longitude)
	result.Approximate = true
	return result, nil
}
