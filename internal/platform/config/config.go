package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration, loaded from READSPACE_* environment
// variables with development-friendly defaults.
type Config struct {
	Env       string `env:"READSPACE_ENV" envDefault:"development"`
	Addr      string `env:"READSPACE_ADDR" envDefault:":8080"`
	DBPath    string `env:"READSPACE_DB_PATH" envDefault:"readspace.db"`
	StaticDir string `env:"READSPACE_STATIC_DIR" envDefault:"static"`

	AdminEmail    string `env:"READSPACE_ADMIN_EMAIL" envDefault:"hello@ireadspace.com"`
	AdminPassword string `env:"READSPACE_ADMIN_PASSWORD" envDefault:"change me before launch"`

	ResendKey    string `env:"READSPACE_RESEND_KEY"`
	EmailFrom    string `env:"READSPACE_EMAIL_FROM" envDefault:"Read Space <noreply@ireadspace.com>"`
	IntakeInbox  string `env:"READSPACE_INTAKE_INBOX" envDefault:"hello@ireadspace.com"`
	BookingSheet string `env:"READSPACE_BOOKING_SHEET" envDefault:"bookings.csv"`

	SlowQueryThreshold time.Duration `env:"READSPACE_SLOW_QUERY" envDefault:"100ms"`
}

// IsProduction reports whether the server runs in the production environment.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
