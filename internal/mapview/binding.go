// Package mapview owns the lifecycle of an interactive map whose rendering
// library is loaded at runtime.
package mapview

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type State int

const (
	StateUninitialized State = iota
	StateLoadingLibrary
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoadingLibrary:
		return "loading-library"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var ErrNotFailed = errors.New("mapview: retry is only possible after a failed load")

type Marker interface {
	ID() int64
	Position() LatLng
	Remove()
}

type Map interface {
	SetView(center LatLng, zoom int, opts ViewOptions)
	View() (center LatLng, zoom int)
	// AddMarker places a marker; onClick runs on every click of it.
	AddMarker(id int64, pos LatLng, icon Icon, onClick func()) Marker
	Remove()
}

// Library creates maps once it has been loaded.
type Library interface {
	NewMap(opts Options) (Map, error)
}

type Loader interface {
	Load(ctx context.Context) (Library, error)
}

type LoaderFunc func(ctx context.Context) (Library, error)

func (f LoaderFunc) Load(ctx context.Context) (Library, error) {
	return f(ctx)
}

// Binding attaches a single map instance to its host. Mounting is guarded:
// only the first Mount loads the library and creates the map.
type Binding struct {
	loader Loader
	opts   Options

	mu      sync.Mutex
	state   State
	err     error
	m       Map
	mounted bool
	onReady []func(Map)
}

type BindingOption func(*Binding)

func WithOptions(opts Options) BindingOption {
	return func(b *Binding) { b.opts = opts }
}

func NewBinding(loader Loader, opts ...BindingOption) *Binding {
	b := &Binding{
		loader: loader,
		opts:   DefaultOptions(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mount loads the library and creates the map. Calls after the first one
// return immediately; a failed load is retried with Retry.
func (b *Binding) Mount(ctx context.Context) error {
	b.mu.Lock()
	if b.mounted {
		b.mu.Unlock()
		return nil
	}
	b.mounted = true
	b.startLocked()
	b.mu.Unlock()

	return b.load(ctx)
}

// Retry repeats the load of a binding in StateFailed.
func (b *Binding) Retry(ctx context.Context) error {
	b.mu.Lock()
	if b.state != StateFailed {
		b.mu.Unlock()
		return ErrNotFailed
	}
	b.startLocked()
	b.mu.Unlock()

	return b.load(ctx)
}

func (b *Binding) startLocked() {
	b.state = StateLoadingLibrary
	b.err = nil
}

// load runs a load started with startLocked.
func (b *Binding) load(ctx context.Context) error {
	m, err := b.create(ctx)

	b.mu.Lock()
	if err != nil {
		b.state = StateFailed
		b.err = err
		b.mu.Unlock()
		log.Warn().Err(err).Str("evt.name", "mapview.load.failed").Msg("map library failed to load")
		return err
	}
	b.state = StateReady
	b.m = m
	callbacks := b.onReady
	b.onReady = nil
	b.mu.Unlock()

	for _, f := range callbacks {
		f(m)
	}
	return nil
}

func (b *Binding) create(ctx context.Context) (Map, error) {
	lib, err := b.loader.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load map library")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := lib.NewMap(b.opts)
	if err != nil {
		return nil, errors.Wrap(err, "create map")
	}
	m.SetView(b.opts.Center, b.opts.Zoom, ViewOptions{})
	return m, nil
}

func (b *Binding) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Err is the reason of the last failed load.
func (b *Binding) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Map returns the map when the binding is ready.
func (b *Binding) Map() (Map, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateReady {
		return nil, false
	}
	return b.m, true
}

// OnReady runs f with the map once it is ready, immediately if it already is.
func (b *Binding) OnReady(f func(Map)) {
	b.mu.Lock()
	if b.state == StateReady {
		m := b.m
		b.mu.Unlock()
		f(m)
		return
	}
	b.onReady = append(b.onReady, f)
	b.mu.Unlock()
}

// Unmount removes the map. The binding can be mounted again afterwards.
func (b *Binding) Unmount() {
	b.mu.Lock()
	m := b.m
	b.m = nil
	b.state = StateUninitialized
	b.err = nil
	b.mounted = false
	b.onReady = nil
	b.mu.Unlock()

	if m != nil {
		m.Remove()
	}
}
