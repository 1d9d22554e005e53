package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	OIDCIssuer   string
	OIDCClientID string

	// StoreDriver selects the item/freezer persistence backend:
	// "redis" (default) or "postgres".
	StoreDriver string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	// best-effort .env for local development
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		OIDCIssuer:   os.Getenv("OIDC_ISSUER"),
		OIDCClientID: os.Getenv("OIDC_CLIENT_ID"),

		StoreDriver: getenv("STORE_DRIVER", "redis"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
