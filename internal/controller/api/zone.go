package api

import (
	"strconv"

	"github.com/go-redsync/redsync/v4"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/cachectrl"
	"zonefinder.dev/backend/internal/pkg/fiberstore"
	"zonefinder.dev/backend/internal/pkg/geo"
	"zonefinder.dev/backend/internal/pkg/middlewares"
	"zonefinder.dev/backend/internal/pkg/rekuest"
	"zonefinder.dev/backend/internal/pkg/zferr"
	"zonefinder.dev/backend/internal/server/svr"
	"zonefinder.dev/backend/internal/service"
)

type Zone struct {
	fx.In

	Config      *appconfig.Config
	Redis       *redis.Client
	RedSync     *redsync.Redsync
	ZoneService *service.Zone
}

func RegisterZone(api *svr.API, c Zone) {
	api.Get("/zones", c.GetZones)
	api.Post("/zones", middlewares.Idempotency(middlewares.IdempotencyConfig{
		Lifetime:  c.Config.IdempotencyLifetime,
		KeyHeader: constant.IdempotencyKeyHeader,
		Storage:   fiberstore.NewRedis(c.Redis, "idempotency"),
		Lock:      middlewares.RedSyncLock(c.RedSync),
	}), c.CreateZone)
	api.Get("/zones/:zoneId", c.GetZone)
	api.Put("/zones/:zoneId", c.UpdateZone)
	api.Delete("/zones/:zoneId", c.DeleteZone)
}

func zoneID(ctx *fiber.Ctx) (int64, error) {
	id, err := ctx.ParamsInt("zoneId")
	if err != nil || id <= 0 {
		return 0, zferr.ErrInvalidReq.Msg("invalid zone id: %q", ctx.Params("zoneId"))
	}
	return int64(id), nil
}

// ZonesGeoJSON renders zones as a FeatureCollection of points.
func ZonesGeoJSON(zones []*model.Zone) ([]byte, error) {
	features := lo.Map(zones, func(z *model.Zone, _ int) *geojson.Feature {
		return geo.Feature(z.Latitude, z.Longitude, map[string]any{
			"id":          z.ID,
			"region":      z.Region,
			"type":        z.Type,
			"subtype":     z.Subtype,
			"description": z.Description,
			"size":        z.Size,
			"address":     z.Address,
			"user":        z.User,
			"image":       z.Image.Ptr(),
		})
	})
	return geo.Collection(features...).MarshalJSON()
}

func (c *Zone) GetZones(ctx *fiber.Ctx) error {
	var query model.ZoneQuery
	if err := rekuest.ValidQuery(ctx, &query); err != nil {
		return err
	}
	if (query.Latitude == nil) != (query.Longitude == nil) {
		return zferr.ErrInvalidReq.Msg("invalid query: latitude and longitude must be given together")
	}

	zones, err := c.ZoneService.GetZones(ctx.UserContext(), &query)
	if err != nil {
		return err
	}

	if query.Format == "geojson" {
		body, err := ZonesGeoJSON(zones)
		if err != nil {
			return err
		}
		return cachectrl.SendWithETag(ctx, body, "application/geo+json")
	}

	body, err := json.Marshal(zones)
	if err != nil {
		return err
	}
	return cachectrl.SendWithETag(ctx, body, fiber.MIMEApplicationJSONCharsetUTF8)
}

func (c *Zone) GetZone(ctx *fiber.Ctx) error {
	id, err := zoneID(ctx)
	if err != nil {
		return err
	}

	zone, err := c.ZoneService.GetZoneByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(zone)
}

func (c *Zone) CreateZone(ctx *fiber.Ctx) error {
	req, img, closer, err := parseZoneRequest(ctx)
	if err != nil {
		return err
	}
	defer closer()

	zone, err := c.ZoneService.CreateZone(ctx.UserContext(), req, img)
	if err != nil {
		return err
	}

	ctx.Location("/api/zones/" + strconv.FormatInt(zone.ID, 10))
	return ctx.Status(fiber.StatusCreated).JSON(zone)
}

func (c *Zone) UpdateZone(ctx *fiber.Ctx) error {
	id, err := zoneID(ctx)
	if err != nil {
		return err
	}

	req, img, closer, err := parseZoneRequest(ctx)
	if err != nil {
		return err
	}
	defer closer()

	zone, err := c.ZoneService.UpdateZone(ctx.UserContext(), id, req, img)
	if err != nil {
		return err
	}

	return ctx.JSON(zone)
}

func (c *Zone) DeleteZone(ctx *fiber.Ctx) error {
	id, err := zoneID(ctx)
	if err != nil {
		return err
	}

	if err := c.ZoneService.DeleteZone(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
