package api

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/rekuest"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

func isMultipart(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// imagePart opens the optional "image" file of a multipart request. The
// returned closer must be called once the upload is consumed.
func imagePart(ctx *fiber.Ctx) (*model.ImageUpload, func(), error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, nil, zferr.ErrInvalidReq.Msg("invalid multipart body: %s", err)
	}
	files := form.File["image"]
	if len(files) == 0 {
		return nil, func() {}, nil
	}
	fh := files[0]

	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "open image part")
	}
	return &model.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// parseZoneRequest reads a zone request either from a JSON body or from a
// multipart body with a JSON "request" part and an optional "image" file.
func parseZoneRequest(ctx *fiber.Ctx) (*model.ZoneRequest, *model.ImageUpload, func(), error) {
	var req model.ZoneRequest

	if !isMultipart(ctx) {
		if err := rekuest.ValidBody(ctx, &req); err != nil {
			return nil, nil, nil, err
		}
		return &req, nil, func() {}, nil
	}

	raw := ctx.FormValue("request")
	if raw == "" {
		return nil, nil, nil, zferr.ErrInvalidReq.Msg("invalid request: the request part is missing")
	}
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, nil, nil, zferr.ErrInvalidReq.Msg("invalid request: %s", err)
	}
	if err := rekuest.ValidStruct(ctx, &req); err != nil {
		return nil, nil, nil, err
	}

	img, closer, err := imagePart(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return &req, img, closer, nil
}
