// Package flog binds a zerolog logger to every fiber request.
package flog

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FromFiberCtx returns the request scoped logger.
func FromFiberCtx(c *fiber.Ctx) *zerolog.Logger {
	return log.Ctx(c.UserContext())
}

// NewHandlerMiddleware stores a copy of l in the request's user context.
func NewHandlerMiddleware(l zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// copy, so UpdateContext calls of one request never leak into another
		rl := l.With().Logger()
		c.SetUserContext(rl.WithContext(c.UserContext()))
		return c.Next()
	}
}

// FieldHandler adds the value returned by f as fieldKey to the request logger.
func FieldHandler(fieldKey string, f func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zerolog.Ctx(c.UserContext()).UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Str(fieldKey, f(c))
		})
		return c.Next()
	}
}

func URLHandler(fieldKey string) fiber.Handler {
	return FieldHandler(fieldKey, func(c *fiber.Ctx) string { return c.Path() })
}

func MethodHandler(fieldKey string) fiber.Handler {
	return FieldHandler(fieldKey, func(c *fiber.Ctx) string { return c.Method() })
}

func RemoteAddrHandler(fieldKey string) fiber.Handler {
	return FieldHandler(fieldKey, func(c *fiber.Ctx) string { return c.IP() })
}

func UserAgentHandler(fieldKey string) fiber.Handler {
	return FieldHandler(fieldKey, func(c *fiber.Ctx) string { return c.Get(fiber.HeaderUserAgent) })
}

type idKey struct{}

// IDFromFiberCtx returns the request id assigned by RequestIDHandler, if any.
func IDFromFiberCtx(c *fiber.Ctx) (id xid.ID, ok bool) {
	if c == nil {
		return
	}
	return IDFromCtx(c.UserContext())
}

func IDFromCtx(ctx context.Context) (id xid.ID, ok bool) {
	id, ok = ctx.Value(idKey{}).(xid.ID)
	return
}

func CtxWithID(ctx context.Context, id xid.ID) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// RequestIDHandler assigns an xid to the request, logs it as fieldKey and
// echoes it in headerName when non-empty.
func RequestIDHandler(fieldKey, headerName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IDFromFiberCtx(c)
		if !ok {
			id = xid.New()
			c.SetUserContext(CtxWithID(c.UserContext(), id))
		}
		if fieldKey != "" {
			FromFiberCtx(c).UpdateContext(func(zc zerolog.Context) zerolog.Context {
				return zc.Str(fieldKey, id.String())
			})
		}
		if headerName != "" {
			c.Set(headerName, id.String())
		}
		return c.Next()
	}
}

// AccessHandler calls f once the rest of the chain returned.
func AccessHandler(f func(c *fiber.Ctx, duration time.Duration)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		f(c, time.Since(start))
		return err
	}
}

func DebugFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Debug()
}

func InfoFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Info()
}

func WarnFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Warn()
}

func ErrorFrom(c *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(c).Error()
}
