package httpserver

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"zonefinder.dev/backend/internal/pkg/flog"
	"zonefinder.dev/backend/internal/pkg/middlewares"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

func handleCustomError(ctx *fiber.Ctx, e *zferr.Error) error {
	flog.WarnFrom(ctx).
		Err(e).
		Int("status", e.StatusCode).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	// Add extra details if needed
	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var ze *zferr.Error
	if errors.As(err, &ze) {
		return handleCustomError(ctx, ze)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		// routing and body parsing errors raised by fiber itself
		e := zferr.New(fe.Code, "UNKNOWN_ERROR", fe.Message)
		if fe.Code == fiber.StatusNotFound {
			e.ErrorCode = zferr.CodeNotFound
		}
		return handleCustomError(ctx, e)
	}

	re := zferr.ErrInternalError
	flog.ErrorFrom(ctx).
		Stack().
		Err(err).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		if u := middlewares.UserFromCtx(ctx); u != nil {
			hub.Scope().SetUser(sentry.User{
				ID: strconv.FormatInt(u.ID, 10),
			})
		}
		hub.CaptureException(err)
	}

	return handleCustomError(ctx, re)
}
