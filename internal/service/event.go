package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/observability"
)

type Event struct {
	js nats.JetStreamContext
}

func NewEvent(js nats.JetStreamContext) *Event {
	return &Event{
		js: js,
	}
}

// NewZoneEvent builds the event for kind happening to zone.
func NewZoneEvent(kind model.ZoneEventKind, zoneID int64, zone *model.Zone) *model.ZoneEvent {
	return &model.ZoneEvent{
		ID:         ulid.Make().String(),
		Kind:       kind,
		ZoneID:     zoneID,
		Zone:       zone,
		OccurredAt: time.Now(),
	}
}

// Subject is the JetStream subject events of kind are published on.
func Subject(kind model.ZoneEventKind) string {
	return constant.ZoneEventSubjectPrefix + string(kind)
}

// PublishZoneEvent hands the event to JetStream and waits briefly for the ack.
// Zone writes never fail because of it; failures are logged.
func (s *Event) PublishZoneEvent(ctx context.Context, event *model.ZoneEvent) {
	if err := s.publish(ctx, event); err != nil {
		log.Warn().
			Err(err).
			Str("evt.name", "event.publish.failed").
			Str("kind", string(event.Kind)).
			Int64("zoneId", event.ZoneID).
			Msg("failed to publish zone event")
		return
	}
	observability.EventsPublished.WithLabelValues(string(event.Kind)).Inc()
}

func (s *Event) publish(ctx context.Context, event *model.ZoneEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub, err := s.js.PublishAsync(Subject(event.Kind), b, nats.MsgId(event.ID))
	if err != nil {
		return err
	}

	select {
	case err := <-pub.Err():
		return err
	case <-pub.Ok():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Millisecond * 500):
		return errors.New("timeout waiting for NATS response")
	}
}
