package controller

import (
	"go.uber.org/fx"

	controllerapi "zonefinder.dev/backend/internal/controller/api"
	controllermeta "zonefinder.dev/backend/internal/controller/meta"
)

func Module() fx.Option {
	return fx.Module("controller",
		// Controllers (api)
		controllerapi.Module(),

		// Controllers (meta)
		controllermeta.Module(),
	)
}
