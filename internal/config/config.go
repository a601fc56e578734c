// Package config loads service configuration from the environment, with an
// optional .env file in development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the server.
type Config struct {
	// ServerPort is the TCP port the HTTP server listens on.
	ServerPort int

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// TokenTTL is how long issued tokens (and the session cookie) stay
	// valid.
	TokenTTL time.Duration

	// LogLevel is the slog level name: debug, info, warn, error.
	LogLevel string

	// SecureCookies marks the session cookie Secure; enable behind HTTPS.
	SecureCookies bool
}

// Load reads configuration from the environment. When ENV=dev, a .env file
// is loaded first if present.
func Load() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return Config{
		ServerPort:    getEnvInt("SERVER_PORT", 8080),
		DBPath:        getEnv("DB_PATH", "./data/splitroom.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      getEnvDuration("TOKEN_TTL", 30*time.Minute),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SecureCookies: getEnv("ENV", "dev") == "production",
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
