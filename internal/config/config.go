package config

import (
	"log"

	"github.com/Skotchmaster/shopfront/pkg/config"
	"github.com/joho/godotenv"
)

type ServiceConfig struct {
	config.Config
}

// Load reads .env when present, then the process environment. Missing
// required settings stop the process.
func Load() ServiceConfig {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using process environment")
	}

	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	return ServiceConfig{Config: cfg}
}
