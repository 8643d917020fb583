package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/middlewares"
	"zonefinder.dev/backend/internal/pkg/rekuest"
	"zonefinder.dev/backend/internal/pkg/zferr"
	"zonefinder.dev/backend/internal/server/svr"
	"zonefinder.dev/backend/internal/service"
)

type User struct {
	fx.In

	UserService *service.User
}

func RegisterUser(users *svr.Users, c User) {
	users.Get("/me", c.GetCurrentUser)
	users.Put("/me/nickname", c.UpdateNickname)
	users.Put("/me/profile-image", c.UpdateProfileImage)
	users.Delete("/me", c.DeleteCurrentUser)
}

func (c *User) GetCurrentUser(ctx *fiber.Ctx) error {
	return ctx.JSON(middlewares.UserFromCtx(ctx))
}

func (c *User) UpdateNickname(ctx *fiber.Ctx) error {
	var req model.NicknameUpdateRequest
	if err := rekuest.ValidBody(ctx, &req); err != nil {
		return err
	}

	user, err := c.UserService.UpdateNickname(ctx.UserContext(), middlewares.UserFromCtx(ctx), req.Nickname)
	if err != nil {
		return err
	}

	return ctx.JSON(user)
}

func (c *User) UpdateProfileImage(ctx *fiber.Ctx) error {
	if !isMultipart(ctx) {
		return zferr.ErrInvalidReq.Msg("invalid request: expected a multipart body with an image part")
	}
	img, closer, err := imagePart(ctx)
	if err != nil {
		return err
	}
	defer closer()
	if img == nil {
		return zferr.ErrInvalidReq.Msg("invalid request: the image part is missing")
	}

	user, err := c.UserService.UpdateProfileImage(ctx.UserContext(), middlewares.UserFromCtx(ctx), img)
	if err != nil {
		return err
	}

	return ctx.JSON(user)
}

func (c *User) DeleteCurrentUser(ctx *fiber.Ctx) error {
	if err := c.UserService.DeleteUser(ctx.UserContext(), middlewares.UserFromCtx(ctx)); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
