// Package zoneform drives the "add zone" form: defaults, location pre-fill,
// submission and the close-after-success delay.
package zoneform

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dchest/uniuri"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"zonefinder.dev/backend/internal/client/zoneclient"
	"zonefinder.dev/backend/internal/geolocation"
	"zonefinder.dev/backend/internal/mapsync"
	"zonefinder.dev/backend/internal/model"
)

const (
	DefaultLatitude  = "37.5665"
	DefaultLongitude = "126.9780"
	DefaultSize      = "소형"

	DefaultCloseDelay = time.Second

	// CreateFailedMessage is shown when a submission fails without a message of its own.
	CreateFailedMessage = "흡연구역 생성에 실패했습니다."
	// InvalidCoordinatesMessage is shown when latitude or longitude is not a number.
	InvalidCoordinatesMessage = "위도와 경도는 숫자로 입력해주세요."
)

var (
	ErrSubmitInFlight     = errors.New("zoneform: submission already in flight")
	ErrNotOpen            = errors.New("zoneform: form is not open")
	ErrInvalidCoordinates = errors.New("zoneform: invalid coordinates")
)

type Locator interface {
	Locate(ctx context.Context, opts geolocation.Options) (*geolocation.Result, error)
}

type Creator interface {
	CreateZone(ctx context.Context, req model.ZoneRequest, img *zoneclient.Image, opts ...zoneclient.CallOption) (*model.Zone, error)
}

// Fields holds the form inputs as typed by the user. Coordinates stay text
// until submission.
type Fields struct {
	Region      string
	Type        string
	Subtype     string
	Description string
	Latitude    string
	Longitude   string
	Size        string
	Address     string
	User        string
	// Image is the URL of an already hosted photo.
	Image string
	// ImagePath is a local photo uploaded with the submission.
	ImagePath string
}

func DefaultFields() Fields {
	return Fields{
		Latitude:  DefaultLatitude,
		Longitude: DefaultLongitude,
		Size:      DefaultSize,
		User:      model.AnonymousUser,
	}
}

// Request converts the fields into a zone request.
func (f Fields) Request() (model.ZoneRequest, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(f.Latitude), 64)
	if err != nil {
		return model.ZoneRequest{}, errors.Wrapf(ErrInvalidCoordinates, "latitude %q", f.Latitude)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(f.Longitude), 64)
	if err != nil {
		return model.ZoneRequest{}, errors.Wrapf(ErrInvalidCoordinates, "longitude %q", f.Longitude)
	}
	return model.ZoneRequest{
		Region:      f.Region,
		Type:        f.Type,
		Subtype:     f.Subtype,
		Description: f.Description,
		Latitude:    lat,
		Longitude:   lng,
		Size:        f.Size,
		Address:     f.Address,
		User:        f.User,
		ImageURL:    f.Image,
	}, nil
}

type State struct {
	Open       bool
	Fields     Fields
	Locating   bool
	Submitting bool
	Success    bool
	Error      string
}

type Option func(*Controller)

func WithCloseDelay(d time.Duration) Option {
	return func(c *Controller) { c.closeDelay = d }
}

// WithImageLoader replaces how Fields.ImagePath is read.
func WithImageLoader(f func(path string) (*zoneclient.Image, error)) Option {
	return func(c *Controller) { c.loadImage = f }
}

type Controller struct {
	creator    Creator
	locator    Locator
	handle     mapsync.Handle
	closeDelay time.Duration
	loadImage  func(path string) (*zoneclient.Image, error)

	mu sync.Mutex
	// session changes whenever the form is reset; completions of an older
	// session are dropped.
	session  uint64
	key      string
	open     bool
	fields   Fields
	locating bool
	// located is set while the address is the one found for the pre-filled
	// coordinates.
	located    bool
	submitting bool
	success    bool
	errMsg     string
	closeTimer *time.Timer
}

// New builds a closed form. locator may be nil, in which case nothing is
// pre-filled.
func New(creator Creator, locator Locator, handle mapsync.Handle, opts ...Option) *Controller {
	c := &Controller{
		creator:    creator,
		locator:    locator,
		handle:     handle,
		closeDelay: DefaultCloseDelay,
		loadImage:  zoneclient.OpenImage,
		fields:     DefaultFields(),
		key:        newKey(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newKey() string {
	return uniuri.NewLen(32)
}

// Open shows the form. When the address is empty the current location is
// looked up once in the background; the returned channel is closed when that
// pre-fill is over. Lookup failures leave the defaults in place.
func (c *Controller) Open(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	c.mu.Lock()
	if c.open {
		c.mu.Unlock()
		close(done)
		return done
	}
	c.open = true
	if c.locator == nil || c.fields.Address != "" {
		c.mu.Unlock()
		close(done)
		return done
	}
	c.locating = true
	session := c.session
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.prefill(ctx, session)
	}()
	return done
}

func (c *Controller) prefill(ctx context.Context, session uint64) {
	res, err := c.locator.Locate(ctx, geolocation.FormOptions)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != session {
		return
	}
	c.locating = false
	if err != nil {
		log.Debug().Err(err).Str("evt.name", "zoneform.prefill.failed").Msg("current location is unavailable")
		return
	}
	c.fields.Latitude = strconv.FormatFloat(res.Latitude, 'f', -1, 64)
	c.fields.Longitude = strconv.FormatFloat(res.Longitude, 'f', -1, 64)
	c.fields.Address = res.Address
	c.located = true
}

// Update edits the fields of an open form. Moving away from the pre-filled
// coordinates without touching the address clears the located address.
func (c *Controller) Update(f func(*Fields)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return ErrNotOpen
	}
	before := c.fields
	f(&c.fields)
	if c.fields.Address != before.Address {
		c.located = false
	}
	moved := c.fields.Latitude != before.Latitude || c.fields.Longitude != before.Longitude
	if moved && c.located {
		c.fields.Address = ""
		c.located = false
	}
	return nil
}

// Submit sends the form. Only one submission runs at a time. On success the
// zone is handed to the map and the form closes after the close delay; on
// failure the form stays open with its inputs and the error message.
func (c *Controller) Submit(ctx context.Context) (*model.Zone, error) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil, ErrNotOpen
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	req, err := c.fields.Request()
	if err != nil {
		c.errMsg = InvalidCoordinatesMessage
		c.mu.Unlock()
		return nil, err
	}
	c.submitting = true
	c.success = false
	c.errMsg = ""
	session := c.session
	key := c.key
	imagePath := c.fields.ImagePath
	c.mu.Unlock()

	zone, err := c.create(ctx, req, imagePath, key)

	c.mu.Lock()
	if c.session != session {
		// the form was reset meanwhile; a created zone still belongs on the map
		c.mu.Unlock()
		if err == nil && c.handle != nil {
			c.handle.AddZone(*zone)
		}
		return zone, err
	}
	c.submitting = false
	if err != nil {
		c.errMsg = err.Error()
		if c.errMsg == "" {
			c.errMsg = CreateFailedMessage
		}
		c.mu.Unlock()
		log.Warn().Err(err).Str("evt.name", "zoneform.submit.failed").Msg("failed to create zone")
		return nil, err
	}
	c.success = true
	c.closeTimer = time.AfterFunc(c.closeDelay, func() { c.closeSession(session) })
	c.mu.Unlock()

	log.Info().Str("evt.name", "zoneform.submit.created").Int64("zoneId", zone.ID).Msg("zone created")
	if c.handle != nil {
		c.handle.AddZone(*zone)
	}
	return zone, nil
}

func (c *Controller) create(ctx context.Context, req model.ZoneRequest, imagePath, key string) (*model.Zone, error) {
	var img *zoneclient.Image
	if imagePath != "" {
		var err error
		img, err = c.loadImage(imagePath)
		if err != nil {
			return nil, errors.Wrap(err, "read image")
		}
	}
	return c.creator.CreateZone(ctx, req, img, zoneclient.WithIdempotencyKey(key))
}

func (c *Controller) closeSession(session uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != session {
		return
	}
	c.resetLocked()
}

// Cancel closes the form and restores the defaults. A running submission
// cannot be cancelled.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmitInFlight
	}
	c.resetLocked()
	return nil
}

func (c *Controller) resetLocked() {
	if c.closeTimer != nil {
		c.closeTimer.Stop()
		c.closeTimer = nil
	}
	c.session++
	c.key = newKey()
	c.open = false
	c.fields = DefaultFields()
	c.locating = false
	c.located = false
	c.submitting = false
	c.success = false
	c.errMsg = ""
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Open:       c.open,
		Fields:     c.fields,
		Locating:   c.locating,
		Submitting: c.submitting,
		Success:    c.success,
		Error:      c.errMsg,
	}
}
