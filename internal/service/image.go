package service

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/dchest/uniuri"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"zonefinder.dev/backend/internal/app/appconfig"
	"zonefinder.dev/backend/internal/model"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
}

type Image struct {
	client    *s3.Client
	bucket    string
	publicURL string
	maxBytes  int64
}

func NewImage(conf *appconfig.Config, client *s3.Client) *Image {
	return &Image{
		client:    client,
		bucket:    conf.S3Bucket,
		publicURL: strings.TrimSuffix(conf.ImagePublicURL, "/"),
		maxBytes:  int64(lo.Ternary(conf.ImageMaxBytes > 0, conf.ImageMaxBytes, 5<<20)),
	}
}

// Enabled reports whether an object storage bucket is configured.
func (s *Image) Enabled() bool {
	return s.client != nil
}

// ObjectKey returns a fresh, unguessable key under prefix for an upload of the given content type.
func ObjectKey(prefix, contentType, filename string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
	}
	return prefix + uniuri.NewLen(24) + ext
}

func (s *Image) validate(img *model.ImageUpload) error {
	if _, ok := imageExtensions[img.ContentType]; !ok {
		return zferr.ErrInvalidReq.Msg("unsupported image type %q", img.ContentType)
	}
	if img.Size > s.maxBytes {
		return zferr.ErrInvalidReq.Msg("image exceeds the size limit of %d bytes", s.maxBytes)
	}
	return nil
}

// Upload stores img under prefix and returns its public URL.
func (s *Image) Upload(ctx context.Context, prefix string, img *model.ImageUpload) (string, error) {
	if s.client == nil {
		return "", zferr.ErrUnavailable.Msg("image uploads are not configured")
	}
	if err := s.validate(img); err != nil {
		return "", err
	}

	// buffered so the request body is seekable for payload signing
	body, err := io.ReadAll(io.LimitReader(img.Body, s.maxBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read image")
	}
	if int64(len(body)) > s.maxBytes {
		return "", zferr.ErrInvalidReq.Msg("image exceeds the size limit of %d bytes", s.maxBytes)
	}

	key := ObjectKey(prefix, img.ContentType, img.Filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			log.Error().
				Str("evt.name", "image.upload.failed").
				Str("key", key).
				Str("code", ae.ErrorCode()).
				Str("fault", ae.ErrorFault().String()).
				Msg(ae.ErrorMessage())
		}
		return "", errors.Wrap(err, "failed to upload image")
	}

	log.Info().Str("evt.name", "image.uploaded").Str("key", key).Int("size", len(body)).Msg("image uploaded")
	return s.publicURL + "/" + key, nil
}

// Delete removes the object behind a URL previously returned by Upload.
// URLs not served from this bucket are ignored. Failures are only logged.
func (s *Image) Delete(ctx context.Context, url string) {
	if s.client == nil || s.publicURL == "" || !strings.HasPrefix(url, s.publicURL+"/") {
		return
	}
	key := strings.TrimPrefix(url, s.publicURL+"/")
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Warn().Err(err).Str("evt.name", "image.delete.failed").Str("key", key).Msg("failed to delete image")
	}
}
