// Package mapsync keeps the zone list, the selected zone and the markers of a
// map in agreement.
package mapsync

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"zonefinder.dev/backend/internal/client/zoneclient"
	"zonefinder.dev/backend/internal/mapview"
	"zonefinder.dev/backend/internal/model"
)

// LoadFailedMessage is shown while a failed zone load is being reported.
const LoadFailedMessage = "흡연구역 데이터를 불러오는데 실패했습니다."

const (
	RecenterZoom     = 16
	RecenterDuration = time.Second

	DefaultErrorDismissAfter = 3 * time.Second
)

var ErrClosed = errors.New("mapsync: synchronizer closed")

type ZoneLister interface {
	ListZones(ctx context.Context, q *zoneclient.ListQuery) ([]model.Zone, error)
}

// Handle is the narrow view of a Synchronizer given to other controllers.
type Handle interface {
	AddZone(zone model.Zone)
	Recenter(lat, lng float64)
}

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

type State struct {
	Status      Status
	Error       string
	Zones       []model.Zone
	Selected    *model.Zone
	Map         mapview.State
	MarkerCount int
}

type Option func(*Synchronizer)

// WithFallbackZones seeds FallbackZones after a failed load when no zone is
// held yet.
func WithFallbackZones(enabled bool) Option {
	return func(s *Synchronizer) { s.fallback = enabled }
}

func WithErrorDismissAfter(d time.Duration) Option {
	return func(s *Synchronizer) { s.dismissAfter = d }
}

type Synchronizer struct {
	lister       ZoneLister
	binding      *mapview.Binding
	fallback     bool
	dismissAfter time.Duration

	// lifetime is cancelled by Close; every operation started by the
	// synchronizer derives from it.
	lifetime context.Context
	cancel   context.CancelFunc

	mu          sync.Mutex
	initialized bool
	closed      bool
	status      Status
	errMsg      string
	errGen      uint64
	dismiss     *time.Timer
	zones       []model.Zone
	selected    *model.Zone
	markedMap   mapview.Map
	markers     map[int64]mapview.Marker
}

var _ Handle = (*Synchronizer)(nil)

func New(lister ZoneLister, binding *mapview.Binding, opts ...Option) *Synchronizer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		lister:       lister,
		binding:      binding,
		dismissAfter: DefaultErrorDismissAfter,
		lifetime:     ctx,
		cancel:       cancel,
		status:       StatusLoading,
		markers:      make(map[int64]mapview.Marker),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// bind derives a context that is cancelled by either ctx or Close.
func (s *Synchronizer) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Initialize mounts the map and loads the zones concurrently. It runs once;
// later calls return nil. A load failure is reported through the state and
// returned for logging, the synchronizer stays usable.
func (s *Synchronizer) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.status = StatusLoading
	s.mu.Unlock()

	ctx, cancel := s.bind(ctx)
	defer cancel()

	var (
		g       errgroup.Group
		loaded  []model.Zone
		loadErr error
	)
	g.Go(func() error {
		if err := s.binding.Mount(ctx); err != nil {
			log.Warn().Err(err).Str("evt.name", "mapsync.mount.failed").Msg("map is unavailable")
		}
		return nil
	})
	g.Go(func() error {
		loaded, loadErr = s.lister.ListZones(ctx, nil)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if loadErr != nil {
		s.failLocked()
		s.reconcileLocked()
		log.Warn().Err(loadErr).Str("evt.name", "mapsync.load.failed").Msg("failed to load zones")
		return errors.Wrap(loadErr, "load zones")
	}

	// zones added while the list was in flight are kept
	ids := lo.Associate(loaded, func(z model.Zone) (int64, struct{}) { return z.ID, struct{}{} })
	for _, z := range s.zones {
		if _, ok := ids[z.ID]; !ok {
			loaded = append(loaded, z)
		}
	}
	s.zones = loaded
	s.status = StatusReady
	s.reconcileLocked()

	log.Debug().Str("evt.name", "mapsync.loaded").Int("zones", len(loaded)).Msg("zones loaded")
	return nil
}

func (s *Synchronizer) failLocked() {
	s.status = StatusError
	s.errMsg = LoadFailedMessage
	if s.fallback && len(s.zones) == 0 {
		s.zones = FallbackZones()
	}

	s.errGen++
	gen := s.errGen
	if s.dismiss != nil {
		s.dismiss.Stop()
	}
	s.dismiss = time.AfterFunc(s.dismissAfter, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.errGen != gen {
			return
		}
		s.errMsg = ""
		s.status = StatusReady
	})
}

// AddZone appends a zone and places its marker. A zone whose id is already
// held replaces that record and its marker.
func (s *Synchronizer) AddZone(zone model.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if _, i, ok := lo.FindIndexOf(s.zones, func(z model.Zone) bool { return z.ID == zone.ID }); ok {
		s.zones[i] = zone
		if s.selected != nil && s.selected.ID == zone.ID {
			s.selected = lo.ToPtr(zone)
		}
	} else {
		s.zones = append(s.zones, zone)
	}
	s.reconcileLocked()
}

// SelectMarker selects the zone with the id of zone, or clears the selection
// for nil. Ids that are not held are rejected.
func (s *Synchronizer) SelectMarker(zone *model.Zone) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zone == nil {
		s.selected = nil
		return true
	}
	z, ok := lo.Find(s.zones, func(z model.Zone) bool { return z.ID == zone.ID })
	if !ok {
		return false
	}
	s.selected = &z
	return true
}

// Recenter moves the map to the coordinates. It does nothing while the map is
// not ready.
func (s *Synchronizer) Recenter(lat, lng float64) {
	m, ok := s.binding.Map()
	if !ok {
		log.Debug().Str("evt.name", "mapsync.recenter.skipped").Msg("map is not ready")
		return
	}
	m.SetView(mapview.LatLng{Lat: lat, Lng: lng}, RecenterZoom, mapview.ViewOptions{
		Animate:  true,
		Duration: RecenterDuration,
	})
}

// RetryMap retries a failed map load and places the markers on success.
func (s *Synchronizer) RetryMap(ctx context.Context) error {
	ctx, cancel := s.bind(ctx)
	defer cancel()

	if err := s.binding.Retry(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.reconcileLocked()
	return nil
}

func (s *Synchronizer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Status:      s.status,
		Error:       s.errMsg,
		Zones:       append([]model.Zone(nil), s.zones...),
		Map:         s.binding.State(),
		MarkerCount: len(s.markers),
	}
	if s.selected != nil {
		st.Selected = lo.ToPtr(*s.selected)
	}
	return st
}

// Close cancels pending operations. Their results are discarded.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	s.closed = true
	if s.dismiss != nil {
		s.dismiss.Stop()
	}
	s.mu.Unlock()
	s.cancel()
}

// reconcileLocked brings the markers in line with the zones, keyed by id.
// Markers of unchanged zones are left alone.
func (s *Synchronizer) reconcileLocked() {
	m, ok := s.binding.Map()
	if !ok {
		return
	}
	if m != s.markedMap {
		s.markers = make(map[int64]mapview.Marker)
		s.markedMap = m
	}

	icon := mapview.PinIcon
	want := make(map[int64]struct{}, len(s.zones))
	for _, z := range s.zones {
		want[z.ID] = struct{}{}
		pos := mapview.LatLng{Lat: z.Latitude, Lng: z.Longitude}
		if mk, ok := s.markers[z.ID]; ok {
			if mk.Position() == pos {
				continue
			}
			mk.Remove()
		}
		id := z.ID
		s.markers[id] = m.AddMarker(id, pos, icon, func() {
			s.SelectMarker(&model.Zone{ID: id})
		})
	}

	for id, mk := range s.markers {
		if _, ok := want[id]; !ok {
			mk.Remove()
			delete(s.markers, id)
		}
	}
}
