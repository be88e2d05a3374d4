package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
	assert.Equal(t, []string{"write_products"}, cfg.Shopify.Scopes)
	assert.Equal(t, []string{"*"}, cfg.Shopify.StorefrontOrigins)
	assert.Equal(t, 100*time.Millisecond, cfg.Deferred.VariantCleanupDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Deferred.SettingsPublishDelay)
	assert.Equal(t, 30*time.Second, cfg.Deferred.TaskTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("SCOPES", "write_products, read_products ,")
	t.Setenv("VARIANT_CLEANUP_DELAY", "2s")
	t.Setenv("SHOPIFY_APP_URL", " https://app.example.com ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"write_products", "read_products"}, cfg.Shopify.Scopes)
	assert.Equal(t, 2*time.Second, cfg.Deferred.VariantCleanupDelay)
	assert.Equal(t, "https://app.example.com", cfg.Shopify.AppURL)
}

func TestLoad_RequiresCredentials(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "")
	t.Setenv("SHOPIFY_API_SECRET", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "SHOPIFY_API_KEY")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("DEFERRED_TASK_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "DEFERRED_TASK_TIMEOUT")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "articmaze", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=articmaze sslmode=disable", c.DSN())
}
