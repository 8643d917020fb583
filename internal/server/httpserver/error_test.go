package httpserver

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"zonefinder.dev/backend/internal/pkg/rekuest"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return zferr.ErrNotFound
	})
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return errors.Wrap(zferr.ErrInvalidReq.Msg("bad radius"), "listing zones")
	})
	app.Get("/violations", func(c *fiber.Ctx) error {
		return zferr.NewInvalidViolations([]*rekuest.ErrorResponse{{Field: "latitude", Violation: "latitude"}})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database exploded")
	})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/missing", fiber.StatusNotFound, zferr.CodeNotFound},
		{"/wrapped", fiber.StatusBadRequest, zferr.CodeInvalidRequest},
		{"/violations", fiber.StatusBadRequest, zferr.CodeInvalidRequest},
		{"/boom", fiber.StatusInternalServerError, zferr.CodeInternalError},
		{"/no-such-route", fiber.StatusNotFound, zferr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			b, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			body := gjson.ParseBytes(b)
			assert.Equal(t, tt.code, body.Get("code").String())
			assert.NotEmpty(t, body.Get("message").String())
		})
	}

	t.Run("violations are rendered", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/violations", nil))
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "latitude", gjson.GetBytes(b, "violations.0.field").String())
	})

	t.Run("internal details are not leaked", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(b), "exploded")
	})
}
