package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/cachectrl"
	"zonefinder.dev/backend/internal/pkg/rekuest"
	"zonefinder.dev/backend/internal/server/svr"
	"zonefinder.dev/backend/internal/service"
)

type Geo struct {
	fx.In

	GeoIPService   *service.GeoIP
	GeocodeService *service.Geocode
}

func RegisterGeo(api *svr.API, c Geo) {
	api.Get("/geo/locate", c.Locate)
	api.Get("/geo/reverse", c.Reverse)
}

// Locate answers the approximate position of the caller's IP address.
func (c *Geo) Locate(ctx *fiber.Ctx) error {
	pos, err := c.GeoIPService.Locate(ctx.IP())
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(pos)
}

func (c *Geo) Reverse(ctx *fiber.Ctx) error {
	var query model.ReverseGeocodeQuery
	if err := rekuest.ValidQuery(ctx, &query); err != nil {
		return err
	}

	result, err := c.GeocodeService.Reverse(ctx.UserContext(), query.Latitude, query.Longitude)
	if err != nil {
		return err
	}

	if !result.Approximate {
		cachectrl.OptInCustom(ctx, time.Now(), time.Hour)
	}
	return ctx.JSON(result)
}
