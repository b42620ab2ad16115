package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds process configuration, loaded once at startup from environment variables.
type Config struct {
	AppEnv string

	// Upstream aviation data provider
	APIBaseURL string
	APIToken   string

	// Postgres (sqlx + GORM)
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string

	// Optional embedded persistence profile. When set, the cache store uses a
	// local sqlite file instead of Postgres.
	SQLitePath string

	// Redis (rate limiter backing store)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Rate limit profile: "production" (1000/h) or "conservative" (100/h)
	RateLimitProfile string

	Port int
}

// Load reads configuration from the environment, applying local-development defaults.
func Load() *Config {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		APIBaseURL:       getEnv("AERO_API_BASE_URL", "https://aviationapi.example.com/v1"),
		APIToken:         os.Getenv("AERO_API_TOKEN"),
		PGHost:           getEnv("PG_HOST", "localhost"),
		PGPort:           getEnv("PG_PORT", "5432"),
		PGUser:           getEnv("PG_USER", "postgres"),
		PGPassword:       os.Getenv("PG_PASSWORD"),
		PGDatabase:       getEnv("PG_DB", "aerodata"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RateLimitProfile: getEnv("RATE_LIMIT_PROFILE", "production"),
		Port:             getEnvInt("PORT", 8080),
	}
	return cfg
}

// PostgresDSN builds the connection string shared by the sqlx and GORM connections.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
