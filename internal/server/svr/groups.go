package svr

import (
	"github.com/gofiber/fiber/v2"

	"zonefinder.dev/backend/internal/pkg/middlewares"
	"zonefinder.dev/backend/internal/service"
)

// API serves the public zone and geo endpoints.
type API struct {
	fiber.Router
}

// Users serves the endpoints of the bearer token owner.
type Users struct {
	fiber.Router
}

type Meta struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App, userService *service.User) (*API, *Users, *Meta) {
	api := app.Group("/api")
	users := api.Group("/users", middlewares.Auth(userService))
	meta := app.Group("/api/_")

	return &API{Router: api}, &Users{Router: users}, &Meta{Router: meta}
}
