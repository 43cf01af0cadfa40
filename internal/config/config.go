package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	NotesRoot     string
	IndexFile     string
	DBPath        string
	APIPort       string
	LogLevel      slog.Level
	LogFormat     string
	WatchDebounce time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and parses typed values.
// If a .env file exists in the current directory or a parent directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
//
// Required fields are checked by Validate, so callers can apply command-line
// overrides between Load and Validate.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up a few levels looking for a .env next to the project root
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		NotesRoot: getEnv("NOTES_ROOT", ""),
		IndexFile: getEnv("INDEX_FILE", "README.md"),
		DBPath:    getEnv("DB_PATH", "./data/meetingnotes.db"),
		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	level, err := ParseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	debounce, err := time.ParseDuration(getEnv("WATCH_DEBOUNCE", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("WATCH_DEBOUNCE must be a valid duration: %w", err)
	}
	if debounce < 0 {
		return nil, fmt.Errorf("WATCH_DEBOUNCE must not be negative")
	}
	cfg.WatchDebounce = debounce

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// Validate checks required fields and prepares the data directory for the catalog.
func (c *Config) Validate() error {
	if c.NotesRoot == "" {
		return fmt.Errorf("NOTES_ROOT is required")
	}
	info, err := os.Stat(c.NotesRoot)
	if err != nil {
		return fmt.Errorf("NOTES_ROOT is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("NOTES_ROOT must be a directory: %s", c.NotesRoot)
	}
	if c.IndexFile == "" || strings.ContainsAny(c.IndexFile, `/\`) {
		return fmt.Errorf("INDEX_FILE must be a plain file name, got %q", c.IndexFile)
	}

	dataDir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	return nil
}

// ParseLogLevel converts a level name (debug, info, warn, error) into a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
