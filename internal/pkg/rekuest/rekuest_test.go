package rekuest

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/i18n"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

func newApp(locale string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*zferr.Error); ok {
				body := fiber.Map{"code": e.ErrorCode, "message": e.Message}
				if e.Extras != nil {
					for k, v := range *e.Extras {
						body[k] = v
					}
				}
				return c.Status(e.StatusCode).JSON(body)
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		tr, _ := i18n.UT.GetTranslator(locale)
		c.Locals(constant.ContextKeyTranslator, tr)
		return c.Next()
	})
	app.Post("/zones", func(c *fiber.Ctx) error {
		var req model.ZoneRequest
		if err := ValidBody(c, &req); err != nil {
			return err
		}
		return c.JSON(req)
	})
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, gjson.Result) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/zones", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(b)
}

func TestValidBody(t *testing.T) {
	app := newApp("en")

	t.Run("valid", func(t *testing.T) {
		status, j := post(t, app, `{"region":"서울특별시 중구","latitude":37.5665,"longitude":126.978}`)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, 37.5665, j.Get("latitude").Float())
	})

	t.Run("latitude out of range", func(t *testing.T) {
		status, j := post(t, app, `{"latitude":137.5,"longitude":126.978}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, zferr.CodeInvalidRequest, j.Get("code").String())
		assert.Equal(t, "latitude", j.Get("violations.0.violation").String())
		assert.Equal(t, "ZoneRequest.Latitude", j.Get("violations.0.field").String())
	})

	t.Run("malformed json", func(t *testing.T) {
		status, j := post(t, app, `{"latitude":`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.NotEmpty(t, j.Get("message").String())
	})
}

func TestValidBodyKorean(t *testing.T) {
	app := newApp("ko")

	status, j := post(t, app, `{"latitude":37.5,"longitude":226.9}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Longitude 항목은 올바른 경도여야 합니다", j.Get("violations.0.message").String())
}
