package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string `mapstructure:"ENV"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	IngestWorkers   int    `mapstructure:"INGEST_WORKERS"`
	IngestQueueSize int    `mapstructure:"INGEST_QUEUE_SIZE"`
}

var envKeys = []string{"ENV", "LOG_LEVEL", "DATABASE_URL", "INGEST_WORKERS", "INGEST_QUEUE_SIZE"}

func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration from the environment and an optional env file
// at path. A missing file is ignored; an unreadable or malformed one is not.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("INGEST_WORKERS", 5)
	v.SetDefault("INGEST_QUEUE_SIZE", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks values that have no usable default. DATABASE_URL is only
// checked by commands that need a database, see RequireDatabase.
func (c *Config) Validate() error {
	if c.IngestWorkers < 1 {
		return fmt.Errorf("INGEST_WORKERS must be at least 1, got %d", c.IngestWorkers)
	}
	if c.IngestQueueSize < 0 {
		return fmt.Errorf("INGEST_QUEUE_SIZE must not be negative, got %d", c.IngestQueueSize)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// NewLogger returns a JSON logger, or a console logger in development.
func (c *Config) NewLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if c.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}
