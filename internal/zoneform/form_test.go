package zoneform

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zonefinder.dev/backend/internal/client/zoneclient"
	"zonefinder.dev/backend/internal/geolocation"
	"zonefinder.dev/backend/internal/model"
)

type fakeLocator struct {
	calls atomic.Int32
	res   *geolocation.Result
	err   error
	opts  geolocation.Options
}

func (l *fakeLocator) Locate(ctx context.Context, opts geolocation.Options) (*geolocation.Result, error) {
	l.calls.Add(1)
	l.opts = opts
	return l.res, l.err
}

type fakeCreator struct {
	mu    sync.Mutex
	calls int
	reqs  []model.ZoneRequest
	imgs  []*zoneclient.Image
	keys  []string
	err   error
	gate  chan struct{}
}

func (f *fakeCreator) CreateZone(ctx context.Context, req model.ZoneRequest, img *zoneclient.Image, opts ...zoneclient.CallOption) (*model.Zone, error) {
	f.mu.Lock()
	f.calls++
	f.reqs = append(f.reqs, req)
	f.imgs = append(f.imgs, img)
	f.keys = append(f.keys, zoneclient.IdempotencyKeyOf(opts...))
	gate := f.gate
	err := f.err
	n := f.calls
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &model.Zone{
		ID:        int64(n),
		Region:    req.Region,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Size:      req.Size,
		User:      req.User,
	}, nil
}

type fakeHandle struct {
	mu    sync.Mutex
	added []model.Zone
}

func (h *fakeHandle) AddZone(z model.Zone) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.added = append(h.added, z)
}

func (h *fakeHandle) Recenter(lat, lng float64) {}

func (h *fakeHandle) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.added)
}

func TestDefaults(t *testing.T) {
	c := New(&fakeCreator{}, nil, &fakeHandle{})
	st := c.State()
	assert.False(t, st.Open)
	assert.Equal(t, "37.5665", st.Fields.Latitude)
	assert.Equal(t, "126.9780", st.Fields.Longitude)
	assert.Equal(t, "소형", st.Fields.Size)
	assert.Equal(t, "익명", st.Fields.User)
	assert.Empty(t, st.Fields.Address)
}

func TestOpenPrefillsLocation(t *testing.T) {
	loc := &fakeLocator{res: &geolocation.Result{
		Position: geolocation.Position{Latitude: 37.123456789, Longitude: 127.987654321},
		Address:  "서울특별시 중구 세종대로 110",
	}}
	c := New(&fakeCreator{}, loc, &fakeHandle{})

	<-c.Open(context.Background())
	<-c.Open(context.Background())

	assert.EqualValues(t, 1, loc.calls.Load())
	assert.Equal(t, geolocation.FormOptions, loc.opts)

	st := c.State()
	assert.True(t, st.Open)
	assert.False(t, st.Locating)
	assert.Equal(t, "37.123456789", st.Fields.Latitude)
	assert.Equal(t, "127.987654321", st.Fields.Longitude)
	assert.Equal(t, "서울특별시 중구 세종대로 110", st.Fields.Address)
}

func TestOpenPrefillFailureIsSilent(t *testing.T) {
	loc := &fakeLocator{err: geolocation.ErrPermissionDenied}
	c := New(&fakeCreator{}, loc, &fakeHandle{})

	<-c.Open(context.Background())

	st := c.State()
	assert.True(t, st.Open)
	assert.Empty(t, st.Error)
	assert.Equal(t, DefaultFields(), st.Fields)
}

func TestUpdateRequiresOpen(t *testing.T) {
	c := New(&fakeCreator{}, nil, &fakeHandle{})
	assert.ErrorIs(t, c.Update(func(f *Fields) {}), ErrNotOpen)
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestSubmitSuccess(t *testing.T) {
	creator := &fakeCreator{}
	handle := &fakeHandle{}
	c := New(creator, nil, handle, WithCloseDelay(100*time.Millisecond))

	<-c.Open(context.Background())
	require.NoError(t, c.Update(func(f *Fields) {
		f.Region = "서울특별시 중구"
		f.Latitude = "37.57"
		f.Longitude = "126.985"
	}))

	zone, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, zone.ID)

	require.Len(t, creator.reqs, 1)
	assert.Equal(t, 37.57, creator.reqs[0].Latitude)
	assert.Equal(t, 126.985, creator.reqs[0].Longitude)
	assert.Equal(t, "익명", creator.reqs[0].User)
	assert.Nil(t, creator.imgs[0])
	assert.Len(t, creator.keys[0], 32)

	st := c.State()
	assert.True(t, st.Success)
	assert.True(t, st.Open)
	assert.Equal(t, 1, handle.count())

	assert.Eventually(t, func() bool { return !c.State().Open }, time.Second, 5*time.Millisecond)
	st = c.State()
	assert.False(t, st.Success)
	assert.Equal(t, DefaultFields(), st.Fields)
	assert.Equal(t, 1, handle.count())
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	creator := &fakeCreator{err: &zoneclient.APIError{StatusCode: 500}}
	handle := &fakeHandle{}
	c := New(creator, nil, handle)

	<-c.Open(context.Background())
	require.NoError(t, c.Update(func(f *Fields) { f.Region = "서울특별시 중구" }))

	_, err := c.Submit(context.Background())
	require.Error(t, err)

	st := c.State()
	assert.True(t, st.Open)
	assert.False(t, st.Submitting)
	assert.Equal(t, "API Error: 500 Internal Server Error", st.Error)
	assert.Equal(t, "서울특별시 중구", st.Fields.Region)
	assert.Equal(t, 0, handle.count())

	// a retry of the same session reuses the idempotency key
	creator.mu.Lock()
	creator.err = nil
	creator.mu.Unlock()
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, creator.keys[0], creator.keys[1])
	assert.Empty(t, c.State().Error)
}

func TestSubmitInvalidCoordinates(t *testing.T) {
	creator := &fakeCreator{}
	c := New(creator, nil, &fakeHandle{})

	<-c.Open(context.Background())
	require.NoError(t, c.Update(func(f *Fields) { f.Latitude = "북위 37도" }))

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
	assert.Equal(t, InvalidCoordinatesMessage, c.State().Error)
	assert.Equal(t, 0, creator.calls)
}

func TestSubmitInFlight(t *testing.T) {
	creator := &fakeCreator{gate: make(chan struct{})}
	handle := &fakeHandle{}
	c := New(creator, nil, handle)
	<-c.Open(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	assert.Eventually(t, func() bool { return c.State().Submitting }, time.Second, 5*time.Millisecond)
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(creator.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, 1, handle.count())
}

func TestCancelDuringSubmit(t *testing.T) {
	creator := &fakeCreator{gate: make(chan struct{})}
	handle := &fakeHandle{}
	c := New(creator, nil, handle)
	<-c.Open(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	assert.Eventually(t, func() bool { return c.State().Submitting }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, c.Cancel(), ErrSubmitInFlight)
	assert.True(t, c.State().Open)

	close(creator.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, 1, handle.count())
	require.NoError(t, c.Cancel())
}

func TestSubmitAfterResetStillPlacesZone(t *testing.T) {
	creator := &fakeCreator{gate: make(chan struct{})}
	handle := &fakeHandle{}
	c := New(creator, nil, handle)
	<-c.Open(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	assert.Eventually(t, func() bool { return c.State().Submitting }, time.Second, 5*time.Millisecond)

	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()

	close(creator.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, handle.count())
	assert.False(t, c.State().Open)
}

func TestUpdateCoordinatesDropsLocatedAddress(t *testing.T) {
	loc := &fakeLocator{res: &geolocation.Result{
		Position: geolocation.Position{Latitude: 37.5665, Longitude: 126.978},
		Address:  "서울특별시 중구 세종대로 110",
	}}
	creator := &fakeCreator{}
	c := New(creator, loc, &fakeHandle{})
	<-c.Open(context.Background())
	require.Equal(t, "서울특별시 중구 세종대로 110", c.State().Fields.Address)

	require.NoError(t, c.Update(func(f *Fields) {
		f.Latitude = "35.1796"
		f.Longitude = "129.0756"
	}))
	assert.Empty(t, c.State().Fields.Address)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, creator.reqs, 1)
	assert.Equal(t, 35.1796, creator.reqs[0].Latitude)
	assert.Empty(t, creator.reqs[0].Address)
}

func TestUpdateKeepsTypedAddress(t *testing.T) {
	loc := &fakeLocator{res: &geolocation.Result{
		Position: geolocation.Position{Latitude: 37.5665, Longitude: 126.978},
		Address:  "서울특별시 중구 세종대로 110",
	}}
	c := New(&fakeCreator{}, loc, &fakeHandle{})
	<-c.Open(context.Background())

	require.NoError(t, c.Update(func(f *Fields) {
		f.Latitude = "35.1796"
		f.Longitude = "129.0756"
		f.Address = "부산광역시 중구 중앙대로 26"
	}))
	assert.Equal(t, "부산광역시 중구 중앙대로 26", c.State().Fields.Address)

	require.NoError(t, c.Update(func(f *Fields) { f.Latitude = "35.18" }))
	assert.Equal(t, "부산광역시 중구 중앙대로 26", c.State().Fields.Address)
}

func TestSubmitWithImage(t *testing.T) {
	creator := &fakeCreator{}
	img := &zoneclient.Image{Filename: "booth.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	var loaded string
	c := New(creator, nil, &fakeHandle{}, WithImageLoader(func(path string) (*zoneclient.Image, error) {
		loaded = path
		return img, nil
	}))

	<-c.Open(context.Background())
	require.NoError(t, c.Update(func(f *Fields) { f.ImagePath = "/tmp/booth.png" }))
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/booth.png", loaded)
	assert.Same(t, img, creator.imgs[0])
}

func TestSubmitImageReadFailure(t *testing.T) {
	creator := &fakeCreator{}
	c := New(creator, nil, &fakeHandle{}, WithImageLoader(func(path string) (*zoneclient.Image, error) {
		return nil, errors.New("no such file")
	}))

	<-c.Open(context.Background())
	require.NoError(t, c.Update(func(f *Fields) { f.ImagePath = "/missing.png" }))
	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, creator.calls)
	assert.True(t, c.State().Open)
}

func TestCancelResets(t *testing.T) {
	creator := &fakeCreator{}
	handle := &fakeHandle{}
	c := New(creator, nil, handle)

	<-c.Open(context.Background())
	require.NoError(t, c.Update(func(f *Fields) { f.Description = "메모" }))
	c.mu.Lock()
	key := c.key
	c.errMsg = "boom"
	c.mu.Unlock()

	require.NoError(t, c.Cancel())

	st := c.State()
	assert.False(t, st.Open)
	assert.Empty(t, st.Error)
	assert.Equal(t, DefaultFields(), st.Fields)
	assert.Equal(t, 0, creator.calls)
	assert.Equal(t, 0, handle.count())

	c.mu.Lock()
	assert.NotEqual(t, key, c.key)
	c.mu.Unlock()
}

func TestCancelDropsPendingPrefill(t *testing.T) {
	gate := make(chan struct{})
	loc := &blockingLocator{gate: gate}
	c := New(&fakeCreator{}, loc, &fakeHandle{})

	done := c.Open(context.Background())
	require.NoError(t, c.Cancel())
	close(gate)
	<-done

	assert.Equal(t, DefaultFields(), c.State().Fields)
}

type blockingLocator struct {
	gate chan struct{}
}

func (l *blockingLocator) Locate(ctx context.Context, opts geolocation.Options) (*geolocation.Result, error) {
	<-l.gate
	return &geolocation.Result{
		Position: geolocation.Position{Latitude: 1, Longitude: 2},
		Address:  "somewhere",
	}, nil
}
