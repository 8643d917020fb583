package cache

import (
	"github.com/redis/go-redis/v9"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/cache"
)

var (
	ZoneByID *cache.Set[model.Zone]

	UserByToken *cache.Set[model.User]

	ReverseGeocode *cache.Set[model.ReverseGeocodeResult]
)

func Initialize(client *redis.Client) {
	ZoneByID = cache.NewSet[model.Zone](client, "zone#zoneId")
	UserByToken = cache.NewSet[model.User](client, "user#token")
	ReverseGeocode = cache.NewSet[model.ReverseGeocodeResult](client, "revgeo#coord")
}
