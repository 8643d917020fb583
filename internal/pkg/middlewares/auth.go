package middlewares

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/flog"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

type UserResolver interface {
	GetUserByToken(ctx context.Context, token string) (*model.User, error)
}

func bearerToken(c *fiber.Ctx) string {
	authorization := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authorization, constant.BearerRealm) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authorization, constant.BearerRealm))
}

// Auth resolves the bearer token of the request into a user stored in the
// fiber locals. Requests without a known token are rejected.
func Auth(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return zferr.ErrUnauthorized
		}

		user, err := resolver.GetUserByToken(c.UserContext(), token)
		if errors.Is(err, zferr.ErrNotFound) {
			return zferr.ErrUnauthorized
		} else if err != nil {
			return err
		}

		flog.FromFiberCtx(c).UpdateContext(func(zc zerolog.Context) zerolog.Context {
			return zc.Int64("user_id", user.ID)
		})
		c.Locals(constant.ContextKeyUser, user)
		return c.Next()
	}
}

// UserFromCtx returns the user authenticated by Auth, or nil.
func UserFromCtx(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(constant.ContextKeyUser).(*model.User)
	return user
}
