package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("zones/", "image/jpeg", "IMG_0001.JPG")
	assert.True(t, strings.HasPrefix(key, "zones/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Len(t, key, len("zones/")+24+len(".jpg"))

	assert.True(t, strings.HasSuffix(ObjectKey("profiles/", "application/x-unknown", "me.PNG"), ".png"))
	assert.NotEqual(t, ObjectKey("zones/", "image/png", ""), ObjectKey("zones/", "image/png", ""))
}

func TestImageUploadRejections(t *testing.T) {
	conf := &appconfig.Config{}
	conf.ImageMaxBytes = 10

	t.Run("not configured", func(t *testing.T) {
		s := NewImage(conf, nil)
		_, err := s.Upload(context.Background(), "zones/", &model.ImageUpload{ContentType: "image/png", Size: 1, Body: strings.NewReader("x")})
		var e *zferr.Error
		if assert.ErrorAs(t, err, &e) {
			assert.Equal(t, zferr.CodeUnavailable, e.ErrorCode)
		}
	})

	t.Run("validation", func(t *testing.T) {
		s := NewImage(conf, nil)
		assert.Error(t, s.validate(&model.ImageUpload{ContentType: "text/plain", Size: 1}))
		assert.Error(t, s.validate(&model.ImageUpload{ContentType: "image/png", Size: 11}))
		assert.NoError(t, s.validate(&model.ImageUpload{ContentType: "image/png", Size: 10}))
	})
}
