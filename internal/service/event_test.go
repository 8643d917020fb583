package service

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"

	"zonefinder.dev/backend/internal/model"
)

func TestNewZoneEvent(t *testing.T) {
	zone := &model.Zone{ID: 42}
	event := NewZoneEvent(model.ZoneCreated, zone.ID, zone)

	_, err := ulid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.ZoneCreated, event.Kind)
	assert.EqualValues(t, 42, event.ZoneID)
	assert.Same(t, zone, event.Zone)
	assert.False(t, event.OccurredAt.IsZero())

	assert.NotEqual(t, event.ID, NewZoneEvent(model.ZoneCreated, 42, zone).ID)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "ZONE.created", Subject(model.ZoneCreated))
	assert.Equal(t, "ZONE.deleted", Subject(model.ZoneDeleted))
}

func TestTokenKey(t *testing.T) {
	assert.Equal(t, tokenKey("abc"), tokenKey("abc"))
	assert.NotEqual(t, tokenKey("abc"), tokenKey("abd"))
	assert.NotContains(t, tokenKey("secret-token"), "secret")
}
