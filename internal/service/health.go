package service

import (
	"context"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDatabaseNotReachable = errors.New("database not reachable")
	ErrRedisNotReachable    = errors.New("redis not reachable")
	ErrNATSNotReachable     = errors.New("nats not reachable")
)

const (
	ComponentUp       = "up"
	ComponentDown     = "down"
	ComponentDisabled = "disabled"
)

// HealthReport maps each backing component to ComponentUp, ComponentDown or
// ComponentDisabled.
type HealthReport map[string]string

type Health struct {
	DB           *bun.DB
	Redis        *redis.Client
	NATS         *nats.Conn
	GeoIPService *GeoIP
	ImageService *Image
}

func NewHealth(db *bun.DB, redis *redis.Client, nats *nats.Conn, geoIPService *GeoIP, imageService *Image) *Health {
	return &Health{
		DB:           db,
		Redis:        redis,
		NATS:         nats,
		GeoIPService: geoIPService,
		ImageService: imageService,
	}
}

// Check probes the required components concurrently. The returned error is
// the first required component found down; optional ones only show up in the
// report.
func (s *Health) Check(ctx context.Context) (HealthReport, error) {
	var (
		mu     sync.Mutex
		report = HealthReport{}
	)
	set := func(name string, err error) error {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report[name] = ComponentDown
			return err
		}
		report[name] = ComponentUp
		return nil
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := s.DB.PingContext(ctx); err != nil {
			return set("database", errors.Wrap(ErrDatabaseNotReachable, err.Error()))
		}
		return set("database", nil)
	})
	g.Go(func() error {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return set("redis", errors.Wrap(ErrRedisNotReachable, err.Error()))
		}
		return set("redis", nil)
	})
	g.Go(func() error {
		// nats pings by itself every 20 seconds (see infra/nats.go)
		status := s.NATS.Status()
		if status != nats.CONNECTED && status != nats.DRAINING_PUBS && status != nats.DRAINING_SUBS {
			return set("nats", errors.Wrap(ErrNATSNotReachable, status.String()))
		}
		return set("nats", nil)
	})
	err := g.Wait()

	optional := func(name string, enabled bool) {
		if enabled {
			report[name] = ComponentUp
		} else {
			report[name] = ComponentDisabled
		}
	}
	optional("geoip", s.GeoIPService.Enabled())
	optional("objectStorage", s.ImageService.Enabled())

	return report, err
}
