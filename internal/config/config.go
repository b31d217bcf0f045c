package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrMissingDatabase = errors.New("DB_URL or DB_HOST must be set")
	ErrMissingAPIKeys  = errors.New("API_KEYS or API_KEY_HASHES must be set")
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort string `env:"APP_PORT" envDefault:"8000"`

	DBURL      string `env:"DB_URL"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Plaintext keys and bcrypt hashes are both accepted; hashes are preferred
	// so the environment never holds a usable key.
	APIKeys      []string `env:"API_KEYS" envSeparator:","`
	APIKeyHashes []string `env:"API_KEY_HASHES" envSeparator:","`

	OtelEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBURL == "" && c.DBHost == "" {
		return ErrMissingDatabase
	}
	if len(c.APIKeys) == 0 && len(c.APIKeyHashes) == 0 {
		return ErrMissingAPIKeys
	}
	return nil
}
