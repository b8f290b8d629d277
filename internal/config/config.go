package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const devPassphrase = "guestlist-dev"

// Config holds the application configuration
type Config struct {
	Environment string
	DataDir     string
	DBFile      string
	Passphrase  string
	LogLevel    string
}

// LoadConfig loads configuration from environment variables or defaults.
// Outside production a .env file in the working directory is read first;
// variables already set in the environment win.
func LoadConfig() (*Config, error) {
	env := getEnv("GUESTLIST_ENV", "development")

	if env != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		Environment: env,
		DataDir:     getEnv("GUESTLIST_DATA_DIR", "data"),
		DBFile:      getEnv("GUESTLIST_DB_FILE", "guests.db"),
		Passphrase:  getEnv("GUESTLIST_PASSPHRASE", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DBPath is the full path of the secure store database
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// ResolvePassphrase returns the configured passphrase. Development builds
// fall back to a fixed value; production requires one.
func (c *Config) ResolvePassphrase() (passphrase string, fallback bool, err error) {
	if c.Passphrase != "" {
		return c.Passphrase, false, nil
	}
	if c.Environment == "production" {
		return "", false, errors.New("GUESTLIST_PASSPHRASE must be set in production")
	}
	return devPassphrase, true, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
