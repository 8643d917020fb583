package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/mapview"
	"zonefinder.dev/backend/internal/pkg/bininfo"
	"zonefinder.dev/backend/internal/pkg/cachectrl"
	"zonefinder.dev/backend/internal/server/svr"
	"zonefinder.dev/backend/internal/service"
)

type Meta struct {
	fx.In

	Config        *appconfig.Config
	HealthService *service.Health
}

func RegisterMeta(meta *svr.Meta, c Meta) {
	meta.Get("/bininfo", c.BinInfo)
	meta.Get("/client-config", c.ClientConfig)

	meta.Get("/health", cache.New(cache.Config{
		// probes of several load balancers hit this at once
		Expiration: time.Second,
	}), c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"version": bininfo.Version,
		"build":   bininfo.BuildTime,
	})
}

// ClientConfig tells map clients how to render and query zones.
func (c *Meta) ClientConfig(ctx *fiber.Ctx) error {
	opts := mapview.DefaultOptions()
	cachectrl.OptInCustom(ctx, time.Now(), time.Hour)
	return ctx.JSON(fiber.Map{
		"center": opts.Center,
		"zoom":   opts.Zoom,
		"tiles": fiber.Map{
			"url":        opts.Tiles.URLTemplate,
			"subdomains": opts.Tiles.Subdomains,
			"maxZoom":    opts.Tiles.MaxZoom,
		},
		"defaultRadius": c.Config.ZoneDefaultRadius,
		"imageMaxBytes": c.Config.ImageMaxBytes,
	})
}

func (c *Meta) Health(ctx *fiber.Ctx) error {
	report, err := c.HealthService.Check(ctx.UserContext())
	if err != nil {
		log.Warn().Err(err).Str("evt.name", "health.degraded").Interface("report", report).Msg("health check failed")
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":     "degraded",
			"components": report,
		})
	}

	return ctx.JSON(fiber.Map{
		"status":     "ok",
		"components": report,
	})
}
