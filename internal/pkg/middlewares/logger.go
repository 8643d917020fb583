package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/pkg/flog"
)

func Logger(app *fiber.App) {
	Chained(
		app,
		flog.NewHandlerMiddleware(log.With().Logger()),
		flog.RequestIDHandler("request_id", constant.RequestIDHeader),
		flog.RemoteAddrHandler("ip"),
		flog.MethodHandler("method"),
		flog.URLHandler("url"),
		flog.UserAgentHandler("user_agent"),
		requestLogger(),
	)
}

func requestLogger() fiber.Handler {
	return flog.AccessHandler(func(c *fiber.Ctx, duration time.Duration) {
		flog.FromFiberCtx(c).Info().
			Str("component", "httpreq").
			Int("status", c.Response().StatusCode()).
			Int("size", len(c.Response().Body())).
			Dur("duration", duration).
			Msg("received request")
	})
}
