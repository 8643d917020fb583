package infra

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"zonefinder.dev/backend/internal/app/appconfig"
)

// S3Client returns nil when no bucket is configured; image uploads are then
// rejected as unavailable.
func S3Client(conf *appconfig.Config) (*s3.Client, error) {
	if conf.S3Bucket == "" {
		log.Warn().
			Str("evt.name", "infra.s3.disabled").
			Msg("s3 bucket is empty: image uploads are disabled")
		return nil, nil
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(conf.S3Region),
	}
	if conf.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.S3AccessKey, conf.S3SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Error().Err(err).Msg("infra: s3: failed to load aws config")
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
