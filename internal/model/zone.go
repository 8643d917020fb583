package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// Zone is a designated smoking area. It is both the persisted row and the
// wire representation returned by the /zones endpoints.
type Zone struct {
	bun.BaseModel `bun:"zones,alias:z"`

	ID          int64       `bun:",pk,autoincrement" json:"id"`
	Region      string      `json:"region"`
	Type        string      `json:"type"`
	Subtype     string      `json:"subtype"`
	Description string      `json:"description"`
	Latitude    float64     `bun:",notnull" json:"latitude"`
	Longitude   float64     `bun:",notnull" json:"longitude"`
	Size        string      `json:"size"`
	Address     string      `json:"address"`
	User        string      `bun:"submitter" json:"user"`
	Image       null.String `json:"image"`
	CreatedAt   time.Time   `bun:",nullzero,notnull,default:current_timestamp" json:"date"`
}

// AnonymousUser is the submitter shown for zones added without a name.
const AnonymousUser = "익명"

// ZoneRequest carries the user supplied attributes of a zone. Coordinates are
// numeric degrees; the form layer converts them from text before sending.
type ZoneRequest struct {
	Region      string  `json:"region" validate:"max=128"`
	Type        string  `json:"type" validate:"max=64"`
	Subtype     string  `json:"subtype" validate:"max=64"`
	Description string  `json:"description" validate:"max=2048"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	Size        string  `json:"size" validate:"max=32"`
	Address     string  `json:"address" validate:"max=512"`
	User        string  `json:"user" validate:"max=64"`
	// ImageURL references an already hosted photo. An uploaded image part takes precedence.
	ImageURL string `json:"image,omitempty" validate:"omitempty,url"`
}

// ZoneQuery narrows a zone listing to a circle around a point. A nil query or
// one without coordinates lists everything.
type ZoneQuery struct {
	Latitude  *float64 `query:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `query:"longitude" validate:"omitempty,longitude"`
	// Radius in meters.
	Radius *float64 `query:"radius" validate:"omitempty,gt=0,lte=100000"`
	Format string   `query:"format" validate:"omitempty,oneof=json geojson"`
}

func (q *ZoneQuery) HasCenter() bool {
	return q != nil && q.Latitude != nil && q.Longitude != nil
}
