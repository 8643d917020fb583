package cachectrl

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/zeebo/xxh3"
)

func OptIn(ctx *fiber.Ctx, t time.Time) {
	offset := time.Minute
	OptInCustom(ctx, t, offset)
}

func OptInCustom(ctx *fiber.Ctx, t time.Time, offset time.Duration) {
	ctx.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(offset.Seconds())))
	ctx.Set("Expires", t.Add(offset).Format(time.RFC1123))

	ctx.Response().Header.SetLastModified(t)
}

func OptOut(ctx *fiber.Ctx) {
	ctx.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	ctx.Set("Pragma", "no-cache")
	ctx.Set("Expires", "0")
}

// ETag returns a weak validator derived from body.
func ETag(body []byte) string {
	return `W/"` + strconv.FormatUint(xxh3.Hash(body), 36) + `"`
}

// SendWithETag sends body with an ETag, answering 304 when the client
// already holds the same representation.
func SendWithETag(ctx *fiber.Ctx, body []byte, contentType string) error {
	tag := ETag(body)
	ctx.Set(fiber.HeaderETag, tag)
	if match := ctx.Get(fiber.HeaderIfNoneMatch); match != "" && match == tag {
		return ctx.SendStatus(fiber.StatusNotModified)
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Send(body)
}
