// Package addresswkr fills in the address of zones that were submitted
// without one, by reverse geocoding their coordinates.
package addresswkr

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/jetstream"
	"zonefinder.dev/backend/internal/pkg/zferr"
	"zonefinder.dev/backend/internal/service"
)

// Geocoder is satisfied by *service.Geocode.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*model.ReverseGeocodeResult, error)
}

// AddressStore is satisfied by *service.Zone.
type AddressStore interface {
	FillAddress(ctx context.Context, id int64, address string) error
}

type WorkerDeps struct {
	fx.In

	JetStream      nats.JetStreamContext
	GeocodeService *service.Geocode
	ZoneService    *service.Zone
}

type Worker struct {
	js       nats.JetStreamContext
	geocoder Geocoder
	store    AddressStore
}

func Start(conf *appconfig.Config, lc fx.Lifecycle, deps WorkerDeps) {
	if conf.AddressWorkers <= 0 {
		log.Info().Str("evt.name", "addresswkr.disabled").Msg("address workers disabled")
		return
	}

	w := &Worker{
		js:       deps.JetStream,
		geocoder: deps.GeocodeService,
		store:    deps.ZoneService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, conf.AddressWorkers)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for i := 0; i < conf.AddressWorkers; i++ {
				go func(i int) {
					defer func() { done <- struct{}{} }()
					if err := w.Consumer(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Error().Err(err).Int("worker", i).Msg("address worker stopped")
					}
				}(i)
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			for i := 0; i < conf.AddressWorkers; i++ {
				select {
				case <-done:
				case <-stopCtx.Done():
					return stopCtx.Err()
				}
			}
			return nil
		},
	})
}

func (w *Worker) Consumer(ctx context.Context) error {
	msgChan := make(chan *nats.Msg, 16)

	sub, err := w.js.ChanQueueSubscribe(
		constant.ZoneEventSubjectPrefix+string(model.ZoneCreated),
		constant.AddressWorkerQueue,
		msgChan,
		nats.AckWait(time.Second*30),
		nats.MaxAckPending(64),
	)
	if err != nil {
		log.Err(err).Msg("failed to subscribe to zone created events")
		return err
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe address worker")
		}
	}()

	for {
		select {
		case msg := <-msgChan:
			w.handle(ctx, msg)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg *nats.Msg) {
	taskCtx, cancelTask := context.WithTimeout(ctx, time.Second*20)
	inprogressInformer := time.AfterFunc(time.Second*10, func() {
		if err := msg.InProgress(); err != nil {
			log.Error().Err(err).Msg("failed to set msg InProgress")
		}
	})
	defer func() {
		inprogressInformer.Stop()
		cancelTask()
		if err := msg.Ack(); err != nil {
			log.Error().Err(err).Msg("failed to ack")
		}
	}()

	var event model.ZoneEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Error().Err(err).Str("msgId", jetstream.MessageID(msg)).Msg("malformed zone event")
		return
	}

	L := log.With().
		Str("msgId", jetstream.MessageID(msg)).
		Str("eventId", event.ID).
		Int64("zoneId", event.ZoneID).
		Logger()

	start := time.Now()
	outcome, err := w.Backfill(taskCtx, &event)
	observe(outcome, time.Since(start))
	if err != nil {
		L.Error().Err(err).Str("evt.name", "addresswkr.failed").Msg("failed to fill in zone address")
		return
	}
	L.Debug().Str("evt.name", "addresswkr.done").Str("outcome", outcome).Msg("zone event processed")
}

const (
	OutcomeSkipped    = "skipped"
	OutcomeFilled     = "filled"
	OutcomeUnresolved = "unresolved"
	OutcomeRaced      = "raced"
	OutcomeFailed     = "failed"
)

// Backfill resolves and stores the address of the zone carried by event when
// it has none.
func (w *Worker) Backfill(ctx context.Context, event *model.ZoneEvent) (string, error) {
	if event.Kind != model.ZoneCreated || event.Zone == nil || event.Zone.Address != "" {
		return OutcomeSkipped, nil
	}

	res, err := w.geocoder.Reverse(ctx, event.Zone.Latitude, event.Zone.Longitude)
	if err != nil {
		return OutcomeFailed, err
	}
	if res.Approximate {
		return OutcomeUnresolved, nil
	}

	if err := w.store.FillAddress(ctx, event.ZoneID, res.Address); err != nil {
		if errors.Is(err, zferr.ErrNotFound) {
			// deleted, or an address was entered in the meantime
			return OutcomeRaced, nil
		}
		return OutcomeFailed, err
	}
	return OutcomeFilled, nil
}
