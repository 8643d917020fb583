package geolocation

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls atomic.Int32
	pos   Position
	err   error
	delay time.Duration
}

func (s *countingSource) CurrentPosition(ctx context.Context) (Position, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	}
	return s.pos, s.err
}

type fakeGeocoder struct {
	address string
	err     error
}

func (g fakeGeocoder) Reverse(context.Context, float64, float64) (string, error) {
	return g.address, g.err
}

func TestLocateWithAddress(t *testing.T) {
	src := &countingSource{pos: Position{Latitude: 37.5012, Longitude: 127.0396}}
	a := New(src, fakeGeocoder{address: "서울특별시 강남구 역삼동"})

	res, err := a.Locate(context.Background(), FormOptions)
	require.NoError(t, err)
	assert.Equal(t, 37.5012, res.Latitude)
	assert.Equal(t, 127.0396, res.Longitude)
	assert.Equal(t, "서울특별시 강남구 역삼동", res.Address)
	assert.False(t, res.Approximate)
}

func TestLocateFallsBackToCoordinates(t *testing.T) {
	src := &countingSource{pos: Position{Latitude: 37.5012, Longitude: 127.0396}}

	t.Run("geocoder error", func(t *testing.T) {
		a := New(src, fakeGeocoder{err: errors.New("boom")})
		res, err := a.Locate(context.Background(), FormOptions)
		require.NoError(t, err)
		assert.Equal(t, "37.501200, 127.039600", res.Address)
		assert.True(t, res.Approximate)
	})

	t.Run("no geocoder", func(t *testing.T) {
		a := New(src, nil)
		res, err := a.Locate(context.Background(), FormOptions)
		require.NoError(t, err)
		assert.Equal(t, "37.501200, 127.039600", res.Address)
	})
}

func TestCurrentPositionReusesFreshReading(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &countingSource{pos: Position{Latitude: 37.5665, Longitude: 126.978}}
	a := New(src, nil, WithClock(func() time.Time { return now }))

	opts := Options{Timeout: time.Second, MaximumAge: time.Minute}
	_, err := a.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = a.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())

	now = now.Add(31 * time.Second)
	_, err = a.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCurrentPositionErrors(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		src := &countingSource{delay: time.Second}
		a := New(src, nil)
		_, err := a.CurrentPosition(context.Background(), Options{Timeout: 20 * time.Millisecond})
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("permission denied", func(t *testing.T) {
		a := New(Denied, nil)
		_, err := a.Locate(context.Background(), LocateOptions)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("failed reading is not cached", func(t *testing.T) {
		src := &countingSource{err: ErrUnavailable}
		a := New(src, nil)
		_, err := a.CurrentPosition(context.Background(), FormOptions)
		assert.ErrorIs(t, err, ErrUnavailable)
		_, err = a.CurrentPosition(context.Background(), FormOptions)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.EqualValues(t, 2, src.calls.Load())
	})
}

func TestGeoIPLookupWithoutDatabase(t *testing.T) {
	_, err := GeoIPLookup(nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}
