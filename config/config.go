package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from environment variables.
type Config struct {
	// DatabaseURL is either a sqlite file path or a postgres:// URL.
	DatabaseURL string `validate:"required"`
	Port        int    `validate:"min=1,max=65535"`
	CSVPath     string `validate:"required"`
}

// Load reads the .env file when present, applies defaults and validates the
// result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system environment")
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", "galamsay.db"),
		Port:        getEnvInt("PORT", 8000),
		CSVPath:     getEnv("GALAMSAY_CSV_PATH", "galamsay_data.csv"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
