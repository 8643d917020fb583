package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/pkg/flog"
)

// RequestID copies the id assigned by the logger chain into the fiber locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(constant.ContextKeyRequestID, id.String())
		}
		return c.Next()
	}
}
