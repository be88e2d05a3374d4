package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Shopify     ShopifyConfig
	Deferred    DeferredConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ShopifyConfig holds the app credentials. Per-shop access tokens live in the sessions table.
type ShopifyConfig struct {
	APIKey            string
	APISecret         string
	Scopes            []string
	AppURL            string // SHOPIFY_APP_URL: published verbatim in the settings snapshot
	APIVersion        string
	ShopCustomDomain  string
	StorefrontOrigins []string // CORS origins allowed to call the storefront API
}

// DeferredConfig controls the fire-and-forget tasks scheduled after requests
type DeferredConfig struct {
	VariantCleanupDelay  time.Duration
	SettingsPublishDelay time.Duration
	TaskTimeout          time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cleanupDelay, err := getDurationOrViper("VARIANT_CLEANUP_DELAY", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}
	publishDelay, err := getDurationOrViper("SETTINGS_PUBLISH_DELAY", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}
	taskTimeout, err := getDurationOrViper("DEFERRED_TASK_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "articmaze"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Shopify: ShopifyConfig{
			APIKey:            strings.TrimSpace(getEnvOrViper("SHOPIFY_API_KEY", "")),
			APISecret:         strings.TrimSpace(getEnvOrViper("SHOPIFY_API_SECRET", "")),
			Scopes:            splitList(getEnvOrViper("SCOPES", "write_products")),
			AppURL:            strings.TrimSpace(getEnvOrViper("SHOPIFY_APP_URL", "")),
			APIVersion:        getEnvOrViper("SHOPIFY_API_VERSION", "2024-10"),
			ShopCustomDomain:  strings.TrimSpace(getEnvOrViper("SHOP_CUSTOM_DOMAIN", "")),
			StorefrontOrigins: splitList(getEnvOrViper("STOREFRONT_ORIGINS", "*")),
		},
		Deferred: DeferredConfig{
			VariantCleanupDelay:  cleanupDelay,
			SettingsPublishDelay: publishDelay,
			TaskTimeout:          taskTimeout,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Shopify.APIKey == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY is required")
	}
	if cfg.Shopify.APISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_SECRET is required")
	}

	return cfg, nil
}

// DSN returns the lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getDurationOrViper(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getEnvOrViper(key, ""))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

// splitList splits a comma-separated setting, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
