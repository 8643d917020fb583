package model

import "time"

type ZoneEventKind string

const (
	ZoneCreated ZoneEventKind = "created"
	ZoneUpdated ZoneEventKind = "updated"
	ZoneDeleted ZoneEventKind = "deleted"
)

type ZoneEvent struct {
	ID         string        `json:"id"`
	Kind       ZoneEventKind `json:"kind"`
	ZoneID     int64         `json:"zoneId"`
	Zone       *Zone         `json:"zone,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
