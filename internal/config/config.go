package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the core.
type Config struct {
	App     AppConfig
	Store   StoreConfig
	Logger  LoggerConfig
	Session SessionConfig
}

// AppConfig identifies the running application.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// StoreConfig locates the durable store.
type StoreConfig struct {
	// Path is the SQLite database file backing the durable store.
	// ":memory:" yields a throwaway store for tests.
	Path string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig defines session token parameters.
type SessionConfig struct {
	TokenSecret   string
	TokenTTLHours int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "trackdesk"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Store: StoreConfig{
			Path: getEnv("TRACKDESK_STORE_PATH", "data/trackdesk.db"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			TokenSecret:   getEnv("SESSION_TOKEN_SECRET", "dev-secret"),
			TokenTTLHours: getEnvAsInt("SESSION_TOKEN_TTL_HOURS", 720),
		},
	}

	return cfg, nil
}

// TokenTTL returns the configured session token lifetime.
func (s SessionConfig) TokenTTL() time.Duration {
	return time.Duration(s.TokenTTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
