package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int    `envconfig:"SERVER_PORT" default:"8080"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
}

// Load reads the configuration from environment variables.
func Load(cfg *Config) error {
	return envconfig.Process("", cfg)
}
