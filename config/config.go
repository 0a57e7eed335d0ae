// Package config loads and validates the service configuration from
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port                string
	Address             string
	Env                 string
	LogLevel            string
	DatabaseURL         string
	LogRetentionWeeks   int
	MaxLogFileSize      int64 // bytes
	MaxRequestBody      int64 // bytes
	MaxHeaderSize       int64 // bytes
	SuggestionCacheSize int   // entries
}

// Load reads the environment and validates every value. DATABASE_URL is the
// only variable without a default; the service cannot run without the store.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8000"),
		Address:             getEnv("ADDRESS", "127.0.0.1"),
		Env:                 strings.ToLower(getEnv("ENV", "dev")),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		LogRetentionWeeks:   getIntEnv("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:      getInt64Env("MAX_LOG_FILE_SIZE", 100*1024*1024),
		MaxRequestBody:      getInt64Env("MAX_REQUEST_BODY", 1024*1024),
		MaxHeaderSize:       getInt64Env("MAX_HEADER_SIZE", 1024*1024),
		SuggestionCacheSize: getIntEnv("SUGGESTION_CACHE_SIZE", 1000),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validate() error {
	if err := validatePort(c.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	if err := validateAddress(c.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}
	if err := oneOf("ENV", c.Env, "dev", "staging", "prod", "test"); err != nil {
		return err
	}
	if err := oneOf("LOG_LEVEL", c.LogLevel, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.LogRetentionWeeks < 1 || c.LogRetentionWeeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be between 1 and 52, got: %d", c.LogRetentionWeeks)
	}
	if c.MaxLogFileSize < 1024*1024 || c.MaxLogFileSize > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be between 1MB and 1GB, got: %d", c.MaxLogFileSize)
	}
	if err := validateSize("MAX_REQUEST_BODY", c.MaxRequestBody); err != nil {
		return err
	}
	if err := validateSize("MAX_HEADER_SIZE", c.MaxHeaderSize); err != nil {
		return err
	}
	if c.SuggestionCacheSize < 1 || c.SuggestionCacheSize > 1_000_000 {
		return fmt.Errorf("SUGGESTION_CACHE_SIZE must be between 1 and 1000000, got: %d", c.SuggestionCacheSize)
	}
	return nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if n < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", n)
	}
	return nil
}

func validateAddress(address string) error {
	if address == "localhost" {
		return nil
	}
	if ip := net.ParseIP(address); ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}
	return nil
}

func validateSize(name string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", name, size)
	}
	if size > 100*1024*1024 {
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", name, size)
	}
	return nil
}

func oneOf(name, value string, valid ...string) error {
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of: %v, got: %s", name, valid, value)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
