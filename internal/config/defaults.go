package config

import (
	"os"
	"time"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		Timezone: "Local",
		Storage: StorageConfig{
			Driver: "sqlite3",
			DSN:    "~/.ziptask/ziptask.db",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
	}
}

// WriteDefault writes the default global configuration to a file
func WriteDefault(path string) error {
	content := `# ZipTask Configuration

# HTTP listen address
listen: ":8080"

# Timezone used for "today" (IANA name, or "Local" for the host timezone)
timezone: Local

# Task storage
storage:
  driver: sqlite3            # "sqlite3" or "postgres"
  dsn: ~/.ziptask/ziptask.db # file path for sqlite3, connection string for postgres

# Session tokens
auth:
  # secret: change-me        # or set ZIPTASK_AUTH_SECRET
  token_ttl: 24h
`
	return os.WriteFile(path, []byte(content), 0644)
}
