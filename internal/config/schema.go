package config

import "time"

// Config represents the full ZipTask configuration
type Config struct {
	// Address the HTTP server listens on
	Listen string `yaml:"listen" mapstructure:"listen"`

	// IANA timezone used for "today" when bucketing and stamping tasks.
	// Empty or "Local" means the host timezone.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`

	// Auth configuration
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`
}

// StorageConfig selects and configures the task store backend
type StorageConfig struct {
	// "sqlite3" or "postgres"
	Driver string `yaml:"driver" mapstructure:"driver"`

	// File path for sqlite3, connection string for postgres
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// AuthConfig configures session tokens
type AuthConfig struct {
	// HMAC signing secret. Falls back to ZIPTASK_AUTH_SECRET when empty.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Token lifetime, e.g. "24h"
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}
