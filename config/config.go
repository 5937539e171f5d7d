// Package config reads server settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// devSecret is only acceptable outside production.
const devSecret = "dev"

type Config struct {
	Port        string
	Root        string
	DatabaseURL string
	UsersFile   string
	NonceSecret string
	PublicURL   string
	LogLevel    zerolog.Level
	LogPretty   bool
}

// Load reads .env files (when present) and then PIN_* variables.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		Port:        getenv("PIN_PORT", "8080"),
		Root:        getenv("PIN_ROOT", "./notes"),
		DatabaseURL: os.Getenv("PIN_DATABASE_URL"),
		UsersFile:   getenv("PIN_USERS", "./users.yaml"),
		NonceSecret: getenv("PIN_NONCE_SECRET", devSecret),
	}
	cfg.PublicURL = getenv("PIN_PUBLIC_URL", "http://localhost:"+cfg.Port)

	level, err := zerolog.ParseLevel(getenv("PIN_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if v := os.Getenv("PIN_LOG_PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		cfg.LogPretty = pretty
	}
	return cfg, nil
}

// InsecureSecret reports whether the nonce secret is the built-in default.
func (c *Config) InsecureSecret() bool {
	return c.NonceSecret == devSecret
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
