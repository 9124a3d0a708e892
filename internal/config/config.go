// Package config loads process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is populated from an optional .env file and the environment
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// SecretKey signs metadata events (hex, nsec or ncryptsec)
	SecretKey string `env:"NOSTR_SECRET_KEY"`
	// SecretKeyPassword decrypts an ncryptsec SecretKey
	SecretKeyPassword string `env:"NOSTR_SECRET_KEY_PASSWORD"`

	// QRSize is the edge length in pixels of rendered lud16 QR codes
	QRSize int `env:"QR_SIZE" envDefault:"256"`
}

const (
	defaultEnvFile = ".env"
	minQRSize      = 64
)

var (
	initOnce  sync.Once
	initCfg   *Config
	initError error
)

// Init loads configuration and installs the default logger. It runs once per
// process; later calls return the first result.
func Init() (*Config, error) {
	initOnce.Do(func() {
		initCfg, initError = Load()
		if initError != nil {
			return
		}
		slog.SetDefault(NewLogger(initCfg, os.Stderr))
		slog.Debug("configuration loaded", "log_level", initCfg.LogLevel, "log_format", initCfg.LogFormat)
	})
	return initCfg, initError
}

// Load reads the .env file named by ENV_FILE (default .env) if present, then
// parses and validates the environment. Existing variables win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT %q (expected json or text)", c.LogFormat)
	}
	if c.QRSize < minQRSize {
		return fmt.Errorf("invalid QR_SIZE %d (minimum %d)", c.QRSize, minQRSize)
	}
	return nil
}
