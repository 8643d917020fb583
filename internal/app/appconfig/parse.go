package appconfig

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"zonefinder.dev/backend/internal/app/appcontext"
)

const (
	envPrefix       = "zonefinder"
	clientEnvPrefix = "zonefinder_client"
)

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
}

func Parse(ctx appcontext.Ctx) (*Config, error) {
	loadDotEnv()

	var config ConfigSpec
	err := envconfig.Process(envPrefix, &config)
	if err != nil {
		_ = envconfig.Usage(envPrefix, &config)
		return nil, fmt.Errorf("failed to parse configuration: %w. More info on how to configure this backend is located at internal/app/appconfig/spec.go", err)
	}

	return &Config{
		ConfigSpec: config,
		AppContext: ctx,
	}, nil
}

func ParseClient() (*ClientSpec, error) {
	loadDotEnv()

	var spec ClientSpec
	if err := envconfig.Process(clientEnvPrefix, &spec); err != nil {
		_ = envconfig.Usage(clientEnvPrefix, &spec)
		return nil, fmt.Errorf("failed to parse client configuration: %w", err)
	}
	return &spec, nil
}
