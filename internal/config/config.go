package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

type Config struct {
	DBPath     string
	ServerPort string
	LogLevel   string
	DemoMode   bool
}

// Load reads configuration from the environment, with a .env file as a
// fallback source. It runs before the logger exists (the logger's level comes
// from here), so a missing .env file is silently fine.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "scorebook.db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DemoMode:   getEnv("DEMO_MODE", "") == "true",
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
