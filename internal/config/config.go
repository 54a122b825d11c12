// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Auth   AuthConfig
	Ledger LedgerConfig
	// DBPath is the SQLite database file.
	DBPath string
}

type ServerConfig struct {
	Port            int
	CORSOrigin      string
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text (colored) or json
}

type AuthConfig struct {
	// Secret signs group tokens. Empty disables auth.
	Secret   string
	TokenTTL time.Duration
}

// Enabled reports whether group tokens are required.
func (a AuthConfig) Enabled() bool {
	return a.Secret != ""
}

type LedgerConfig struct {
	CacheSize int
}

// Load reads configuration from the environment. Variables from envFile are
// loaded first when the file exists; variables already set in the process
// environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getIntEnv("PORT", 8080),
			CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
		Auth: AuthConfig{
			Secret:   os.Getenv("AUTH_SECRET"),
			TokenTTL: getDurationEnv("TOKEN_TTL", 0),
		},
		Ledger: LedgerConfig{
			CacheSize: getIntEnv("LEDGER_CACHE_SIZE", 128),
		},
		DBPath: getEnv("DB_PATH", "./data/splitly.db"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	if c.Auth.Enabled() && len(c.Auth.Secret) < 16 {
		return errors.New("AUTH_SECRET must be at least 16 characters")
	}
	if c.Auth.TokenTTL < 0 {
		return errors.New("TOKEN_TTL must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
