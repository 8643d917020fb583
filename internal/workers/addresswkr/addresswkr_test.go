package addresswkr

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

type fakeGeocoder struct {
	calls int
	res   *model.ReverseGeocodeResult
	err   error
}

func (g *fakeGeocoder) Reverse(ctx context.Context, lat, lng float64) (*model.ReverseGeocodeResult, error) {
	g.calls++
	return g.res, g.err
}

type fakeStore struct {
	filled map[int64]string
	err    error
}

func (s *fakeStore) FillAddress(ctx context.Context, id int64, address string) error {
	if s.err != nil {
		return s.err
	}
	if s.filled == nil {
		s.filled = map[int64]string{}
	}
	s.filled[id] = address
	return nil
}

func created(address string) *model.ZoneEvent {
	return &model.ZoneEvent{
		Kind:   model.ZoneCreated,
		ZoneID: 7,
		Zone:   &model.Zone{ID: 7, Latitude: 37.5665, Longitude: 126.978, Address: address},
	}
}

func TestBackfill(t *testing.T) {
	ctx := context.Background()

	t.Run("fills missing address", func(t *testing.T) {
		g := &fakeGeocoder{res: &model.ReverseGeocodeResult{Address: "서울특별시 중구 세종대로 110"}}
		s := &fakeStore{}
		w := &Worker{geocoder: g, store: s}

		outcome, err := w.Backfill(ctx, created(""))
		require.NoError(t, err)
		assert.Equal(t, OutcomeFilled, outcome)
		assert.Equal(t, "서울특별시 중구 세종대로 110", s.filled[7])
	})

	t.Run("skips zones with an address", func(t *testing.T) {
		g := &fakeGeocoder{}
		w := &Worker{geocoder: g, store: &fakeStore{}}

		outcome, err := w.Backfill(ctx, created("명동길 26"))
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
		assert.Zero(t, g.calls)
	})

	t.Run("skips other kinds", func(t *testing.T) {
		g := &fakeGeocoder{}
		w := &Worker{geocoder: g, store: &fakeStore{}}

		ev := created("")
		ev.Kind = model.ZoneDeleted
		outcome, err := w.Backfill(ctx, ev)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
		assert.Zero(t, g.calls)
	})

	t.Run("leaves approximate results alone", func(t *testing.T) {
		g := &fakeGeocoder{res: &model.ReverseGeocodeResult{Address: "37.566500, 126.978000", Approximate: true}}
		s := &fakeStore{}
		w := &Worker{geocoder: g, store: s}

		outcome, err := w.Backfill(ctx, created(""))
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnresolved, outcome)
		assert.Empty(t, s.filled)
	})

	t.Run("zone changed meanwhile", func(t *testing.T) {
		g := &fakeGeocoder{res: &model.ReverseGeocodeResult{Address: "somewhere"}}
		w := &Worker{geocoder: g, store: &fakeStore{err: zferr.ErrNotFound}}

		outcome, err := w.Backfill(ctx, created(""))
		require.NoError(t, err)
		assert.Equal(t, OutcomeRaced, outcome)
	})

	t.Run("store failure", func(t *testing.T) {
		g := &fakeGeocoder{res: &model.ReverseGeocodeResult{Address: "somewhere"}}
		w := &Worker{geocoder: g, store: &fakeStore{err: errors.New("connection reset")}}

		outcome, err := w.Backfill(ctx, created(""))
		require.Error(t, err)
		assert.Equal(t, OutcomeFailed, outcome)
	})
}
