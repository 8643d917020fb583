package mapview

import (
	"context"
	"sort"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"
)

// HeadlessLibrary renders maps in memory. It is used by the CLI and in tests,
// and doubles as a Loader that never fails.
type HeadlessLibrary struct {
	mu   sync.Mutex
	maps []*HeadlessMap
}

func Headless() *HeadlessLibrary {
	return &HeadlessLibrary{}
}

func (l *HeadlessLibrary) Load(ctx context.Context) (Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *HeadlessLibrary) NewMap(opts Options) (Map, error) {
	m := &HeadlessMap{
		opts:    opts,
		center:  opts.Center,
		zoom:    opts.Zoom,
		markers: make(map[int64]*headlessMarker),
	}
	l.mu.Lock()
	l.maps = append(l.maps, m)
	l.mu.Unlock()
	return m, nil
}

// Maps lists every map created so far, including removed ones.
func (l *HeadlessLibrary) Maps() []*HeadlessMap {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*HeadlessMap(nil), l.maps...)
}

type ViewChange struct {
	Center LatLng
	Zoom   int
	ViewOptions
}

type HeadlessMap struct {
	opts Options

	mu      sync.Mutex
	center  LatLng
	zoom    int
	views   []ViewChange
	markers map[int64]*headlessMarker
	added   int
	removed bool
}

func (m *HeadlessMap) SetView(center LatLng, zoom int, opts ViewOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = center
	m.zoom = zoom
	m.views = append(m.views, ViewChange{Center: center, Zoom: zoom, ViewOptions: opts})
}

func (m *HeadlessMap) View() (LatLng, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center, m.zoom
}

// Views is the history of SetView calls.
func (m *HeadlessMap) Views() []ViewChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ViewChange(nil), m.views...)
}

func (m *HeadlessMap) AddMarker(id int64, pos LatLng, icon Icon, onClick func()) Marker {
	mk := &headlessMarker{m: m, id: id, pos: pos, icon: icon, onClick: onClick}
	m.mu.Lock()
	m.markers[id] = mk
	m.added++
	m.mu.Unlock()
	return mk
}

func (m *HeadlessMap) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = true
	m.markers = make(map[int64]*headlessMarker)
}

func (m *HeadlessMap) Removed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removed
}

// MarkerIDs returns the ids of the markers on the map, ascending.
func (m *HeadlessMap) MarkerIDs() []int64 {
	m.mu.Lock()
	ids := lo.Keys(m.markers)
	m.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Marker returns the marker currently placed for id.
func (m *HeadlessMap) Marker(id int64) (Marker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mk, ok := m.markers[id]
	return mk, ok
}

// AddedCount is the number of AddMarker calls over the lifetime of the map.
func (m *HeadlessMap) AddedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.added
}

// Click simulates a click on the marker for id.
func (m *HeadlessMap) Click(id int64) bool {
	m.mu.Lock()
	mk, ok := m.markers[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	if mk.onClick != nil {
		mk.onClick()
	}
	return true
}

// GeoJSON exports the markers as a FeatureCollection of points.
func (m *HeadlessMap) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, id := range m.MarkerIDs() {
		m.mu.Lock()
		mk, ok := m.markers[id]
		m.mu.Unlock()
		if !ok {
			continue
		}
		f := geojson.NewFeature(orb.Point{mk.pos.Lng, mk.pos.Lat})
		f.ID = id
		f.Properties["id"] = id
		f.Properties["fill"] = PinFill
		fc.Append(f)
	}
	return fc
}

type headlessMarker struct {
	m       *HeadlessMap
	id      int64
	pos     LatLng
	icon    Icon
	onClick func()
}

func (mk *headlessMarker) ID() int64 { return mk.id }

func (mk *headlessMarker) Position() LatLng { return mk.pos }

func (mk *headlessMarker) Remove() {
	mk.m.mu.Lock()
	defer mk.m.mu.Unlock()
	if cur, ok := mk.m.markers[mk.id]; ok && cur == mk {
		delete(mk.m.markers, mk.id)
	}
}
