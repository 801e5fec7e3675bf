package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names a storage engine.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendMemory   Backend = "memory"
)

// Config holds all application configuration
type Config struct {
	Backend Backend

	// Database configuration
	Database DatabaseConfig

	// SQLitePath is the database file used by the sqlite backend
	SQLitePath string

	// BaseDir holds the library files and, by default, the SQLite database
	BaseDir string

	// Logging configuration
	Logging LoggingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL         string // Full PostgreSQL URL
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	ConnectWait time.Duration
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load reads an optional env file and then configuration from environment
// variables. Missing env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		_ = godotenv.Load(file)
	}

	cfg := &Config{
		Backend: Backend(strings.ToLower(getEnvOrDefault("MYMUSIC_BACKEND", string(BackendPostgres)))),
	}

	if err := cfg.loadPaths(); err != nil {
		return nil, fmt.Errorf("load paths: %w", err)
	}

	if cfg.Backend == BackendPostgres {
		if err := cfg.loadDatabase(); err != nil {
			return nil, fmt.Errorf("load database config: %w", err)
		}
	}

	cfg.loadLogging()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadPaths() error {
	c.BaseDir = os.Getenv("MYMUSIC_BASE_DIR")
	if c.BaseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.BaseDir = filepath.Join(home, "MyMusicServerFiles")
	}
	c.SQLitePath = getEnvOrDefault("SQLITE_PATH", filepath.Join(c.BaseDir, "MyMusic.sqlite"))
	return nil
}

func (c *Config) loadDatabase() error {
	waitStr := getEnvOrDefault("DB_CONNECT_WAIT", "30s")
	wait, err := time.ParseDuration(waitStr)
	if err != nil {
		return fmt.Errorf("invalid DB_CONNECT_WAIT: %w", err)
	}
	c.Database.ConnectWait = wait

	c.Database.URL = os.Getenv("DATABASE_URL")
	if c.Database.URL != "" {
		return nil
	}

	c.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	c.Database.User = os.Getenv("DB_USER")
	c.Database.Password = os.Getenv("DB_PASSWORD")
	c.Database.Name = os.Getenv("DB_NAME")
	c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	c.Database.Port = port

	if c.Database.Host != "" && c.Database.User != "" && c.Database.Name != "" {
		c.Database.URL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
	return nil
}

func (c *Config) loadLogging() {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
}

// FileRoot returns the directory holding record files. The memory backend
// keeps its files directly under the base directory.
func (c *Config) FileRoot() string {
	if c.Backend == BackendMemory {
		return c.BaseDir
	}
	return filepath.Join(c.BaseDir, "music")
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	switch c.Backend {
	case BackendPostgres:
		if c.Database.URL == "" {
			errors = append(errors, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errors = append(errors, "SQLITE_PATH is required")
		}
	case BackendMemory:
	default:
		errors = append(errors, "MYMUSIC_BACKEND must be one of: postgres, sqlite, memory")
	}

	if c.BaseDir == "" {
		errors = append(errors, "MYMUSIC_BASE_DIR is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
