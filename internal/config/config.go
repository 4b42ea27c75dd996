// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	PubSub   PubSubConfig   `mapstructure:"pubsub"`
	Site     SiteConfig     `mapstructure:"site"`
	Bulk     BulkConfig     `mapstructure:"bulk"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// StorageConfig selects and parameterizes the blob store backend.
type StorageConfig struct {
	Provider           string `mapstructure:"provider"`
	GCSBucket          string `mapstructure:"gcs_bucket"`
	CacheMaxAgeSeconds int    `mapstructure:"cache_max_age_seconds"`
}

// DatabaseConfig selects and parameterizes the entity source.
type DatabaseConfig struct {
	Provider           string `mapstructure:"provider"`
	ProjectID          string `mapstructure:"project_id"`
	Database           string `mapstructure:"database"`
	ListingsCollection string `mapstructure:"listings_collection"`
	TenantsCollection  string `mapstructure:"tenants_collection"`
}

// PubSubConfig holds metadata for the change-notification subscription.
type PubSubConfig struct {
	Provider     string `mapstructure:"provider"`
	ProjectID    string `mapstructure:"project_id"`
	Subscription string `mapstructure:"subscription"`
}

// SiteConfig carries the URL roots baked into generated artifacts.
type SiteConfig struct {
	PublicBaseURL       string `mapstructure:"public_base_url"`
	RedirectBaseURL     string `mapstructure:"redirect_base_url"`
	DefaultListingImage string `mapstructure:"default_listing_image"`
	DefaultAvatarImage  string `mapstructure:"default_avatar_image"`
}

// BulkConfig governs the bulk regeneration worker pool.
type BulkConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SEOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.provider", "gcs")
	v.SetDefault("storage.cache_max_age_seconds", 3600)
	v.SetDefault("database.provider", "firestore")
	v.SetDefault("database.database", "(default)")
	v.SetDefault("database.listings_collection", "posts")
	v.SetDefault("database.tenants_collection", "users_prof")
	v.SetDefault("pubsub.provider", "pubsub")
	v.SetDefault("site.public_base_url", "https://bilikmatch.com")
	v.SetDefault("site.redirect_base_url", "https://kotarokaseko.github.io/bilikmatch_tenant")
	v.SetDefault("site.default_listing_image", "https://bilikmatch.com/assets/default-og.jpg")
	v.SetDefault("site.default_avatar_image", "https://bilikmatch.com/assets/default-avatar.png")
	v.SetDefault("bulk.concurrency", 8)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Bulk.Concurrency <= 0 {
		return fmt.Errorf("bulk.concurrency must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.Storage.Provider == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("storage.gcs_bucket must be set when storage.provider is 'gcs'")
	}
	if c.Database.Provider == "firestore" && c.Database.ProjectID == "" {
		return fmt.Errorf("database.project_id must be set when database.provider is 'firestore'")
	}
	if c.PubSub.Provider == "pubsub" && (c.PubSub.ProjectID == "" || c.PubSub.Subscription == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.subscription must be set when pubsub.provider is 'pubsub'")
	}
	if c.Site.PublicBaseURL == "" || c.Site.RedirectBaseURL == "" {
		return fmt.Errorf("site.public_base_url and site.redirect_base_url must be set")
	}
	return nil
}

// CacheMaxAge converts the configured cache lifetime into a duration.
func (c Config) CacheMaxAge() time.Duration {
	return time.Duration(c.Storage.CacheMaxAgeSeconds) * time.Second
}
