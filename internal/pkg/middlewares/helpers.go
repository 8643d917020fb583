package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// Chained mounts handlers on router in the given order.
func Chained(router fiber.Router, handlers ...fiber.Handler) {
	for _, h := range handlers {
		router.Use(h)
	}
}
