package mapview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls atomic.Int32
	fail  atomic.Bool
	lib   *HeadlessLibrary
}

func (l *countingLoader) Load(ctx context.Context) (Library, error) {
	l.calls.Add(1)
	if l.fail.Load() {
		return nil, errors.New("script blocked")
	}
	return l.lib.Load(ctx)
}

func TestBindingMountIsGuarded(t *testing.T) {
	loader := &countingLoader{lib: Headless()}
	b := NewBinding(loader)
	assert.Equal(t, StateUninitialized, b.State())

	require.NoError(t, b.Mount(context.Background()))
	require.NoError(t, b.Mount(context.Background()))

	assert.EqualValues(t, 1, loader.calls.Load())
	assert.Len(t, loader.lib.Maps(), 1)
	assert.Equal(t, StateReady, b.State())

	m, ok := b.Map()
	require.True(t, ok)
	center, zoom := m.View()
	assert.Equal(t, DefaultCenter, center)
	assert.Equal(t, 13, zoom)
}

func TestBindingFailedThenRetry(t *testing.T) {
	loader := &countingLoader{lib: Headless()}
	loader.fail.Store(true)
	b := NewBinding(loader)

	err := b.Mount(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, b.State())
	assert.Error(t, b.Err())
	_, ok := b.Map()
	assert.False(t, ok)

	// still guarded after a failure
	require.NoError(t, b.Mount(context.Background()))
	assert.EqualValues(t, 1, loader.calls.Load())

	loader.fail.Store(false)
	require.NoError(t, b.Retry(context.Background()))
	assert.Equal(t, StateReady, b.State())
	assert.NoError(t, b.Err())

	assert.ErrorIs(t, b.Retry(context.Background()), ErrNotFailed)
}

type gatedLoader struct {
	calls atomic.Int32
	gate  chan struct{}
	lib   *HeadlessLibrary
}

func (l *gatedLoader) Load(ctx context.Context) (Library, error) {
	if l.calls.Add(1) == 1 {
		return nil, errors.New("script blocked")
	}
	<-l.gate
	return l.lib.Load(ctx)
}

func TestBindingConcurrentRetryLoadsOnce(t *testing.T) {
	loader := &gatedLoader{gate: make(chan struct{}), lib: Headless()}
	b := NewBinding(loader)
	require.Error(t, b.Mount(context.Background()))

	done := make(chan error, 1)
	go func() { done <- b.Retry(context.Background()) }()

	assert.Eventually(t, func() bool { return loader.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StateLoadingLibrary, b.State())
	assert.ErrorIs(t, b.Retry(context.Background()), ErrNotFailed)

	close(loader.gate)
	require.NoError(t, <-done)
	assert.EqualValues(t, 2, loader.calls.Load())
	assert.Len(t, loader.lib.Maps(), 1)
	assert.Equal(t, StateReady, b.State())
}

func TestBindingRetryBeforeMount(t *testing.T) {
	b := NewBinding(Headless())
	assert.ErrorIs(t, b.Retry(context.Background()), ErrNotFailed)
}

func TestBindingOnReady(t *testing.T) {
	b := NewBinding(Headless())

	var got Map
	b.OnReady(func(m Map) { got = m })
	assert.Nil(t, got)

	require.NoError(t, b.Mount(context.Background()))
	require.NotNil(t, got)

	var again Map
	b.OnReady(func(m Map) { again = m })
	assert.Same(t, got, again)
}

func TestBindingUnmount(t *testing.T) {
	lib := Headless()
	b := NewBinding(lib)
	require.NoError(t, b.Mount(context.Background()))

	b.Unmount()
	assert.Equal(t, StateUninitialized, b.State())
	assert.True(t, lib.Maps()[0].Removed())

	require.NoError(t, b.Mount(context.Background()))
	assert.Len(t, lib.Maps(), 2)
}

func TestBindingCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBinding(Headless())
	assert.ErrorIs(t, b.Mount(ctx), context.Canceled)
	assert.Equal(t, StateFailed, b.State())
}

func TestHeadlessMarkers(t *testing.T) {
	lib := Headless()
	m, err := lib.NewMap(DefaultOptions())
	require.NoError(t, err)
	hm := m.(*HeadlessMap)

	var clicked int64
	m.AddMarker(2, LatLng{Lat: 37.57, Lng: 126.985}, PinIcon, func() { clicked = 2 })
	first := m.AddMarker(1, LatLng{Lat: 37.5665, Lng: 126.978}, PinIcon, nil)

	assert.Equal(t, []int64{1, 2}, hm.MarkerIDs())
	assert.True(t, hm.Click(2))
	assert.EqualValues(t, 2, clicked)
	assert.False(t, hm.Click(3))

	fc := hm.GeoJSON()
	require.Len(t, fc.Features, 2)
	assert.Equal(t, int64(1), fc.Features[0].ID)
	assert.Equal(t, PinFill, fc.Features[0].Properties["fill"])

	first.Remove()
	assert.Equal(t, []int64{2}, hm.MarkerIDs())
	assert.Equal(t, 2, hm.AddedCount())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.False(t, opts.ZoomControl)
	assert.Equal(t, 20, opts.Tiles.MaxZoom)
	assert.Equal(t, "abcd", opts.Tiles.Subdomains)
	assert.Equal(t, Point{X: 32, Y: 32}, opts.PinIcon.Size)
	assert.Equal(t, Point{X: 16, Y: 32}, opts.PinIcon.Anchor)
	assert.Equal(t, Point{X: 0, Y: -32}, opts.PinIcon.PopupAnchor)
	assert.Contains(t, opts.PinIcon.HTML, `fill="#D97742"`)
	assert.Equal(t, "loading-library", StateLoadingLibrary.String())
}

func TestTileURL(t *testing.T) {
	assert.Equal(t,
		"https://a.basemaps.cartocdn.com/dark_all/0/0/0.png",
		TileURL(DarkTiles, 0, 0, 0))
}

func TestProbeLoader(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tiles/0/0/0.png", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	tiles := TileLayer{URLTemplate: srv.URL + "/tiles/{z}/{x}/{y}{r}.png"}
	b := NewBinding(ProbeLoader{Tiles: tiles, Client: srv.Client(), Next: Headless()})

	status.Store(http.StatusServiceUnavailable)
	require.Error(t, b.Mount(context.Background()))
	assert.Equal(t, StateFailed, b.State())

	status.Store(http.StatusOK)
	require.NoError(t, b.Retry(context.Background()))
	assert.Equal(t, StateReady, b.State())
}
