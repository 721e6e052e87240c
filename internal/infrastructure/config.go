package infrastructure

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the environment surface of a hosting application.
type Config struct {
	IdentityBaseURL      string        `envconfig:"IDENTITY_BASE_URL" required:"true"`
	ApplicationName      string        `envconfig:"APPLICATION_NAME" required:"true"`
	CatalogManifest      string        `envconfig:"CATALOG_MANIFEST"`
	DiscoveryCacheMaxAge time.Duration `envconfig:"DISCOVERY_CACHE_MAX_AGE" default:"300s"`
	IdentityHTTPTimeout  time.Duration `envconfig:"IDENTITY_HTTP_TIMEOUT" default:"10s"`
	Port                 string        `envconfig:"PORT" default:"8080"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.IdentityBaseURL = strings.TrimRight(cfg.IdentityBaseURL, "/")
	if cfg.IdentityBaseURL == "" {
		return nil, errors.New("identity base url must be provided")
	}
	return &cfg, nil
}
