package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "https://identity.example.com/")
	t.Setenv("APPLICATION_NAME", "acme")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://identity.example.com", cfg.IdentityBaseURL)
	assert.Equal(t, "acme", cfg.ApplicationName)
	assert.Equal(t, 300*time.Second, cfg.DiscoveryCacheMaxAge)
	assert.Equal(t, 10*time.Second, cfg.IdentityHTTPTimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.CatalogManifest)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "https://identity.example.com")
	t.Setenv("APPLICATION_NAME", "acme")
	t.Setenv("DISCOVERY_CACHE_MAX_AGE", "60s")
	t.Setenv("IDENTITY_HTTP_TIMEOUT", "2s")
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_MANIFEST", "permissions.yaml")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.DiscoveryCacheMaxAge)
	assert.Equal(t, 2*time.Second, cfg.IdentityHTTPTimeout)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "permissions.yaml", cfg.CatalogManifest)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "")
	t.Setenv("APPLICATION_NAME", "acme")

	_, err := LoadConfig()
	assert.Error(t, err)
}
