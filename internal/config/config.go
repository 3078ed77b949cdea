// Package config loads runtime configuration from the environment.
package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	// DatabasePath is the SQLite file. Defaults to
	// <data dir>/hermanar/hermanar.db; HERMANAR_DB_PATH overrides it.
	DatabasePath string

	// Port for the API server.
	Port string

	// RedisURL enables the statistics cache when non-empty.
	RedisURL string

	LogLevel  string
	LogFormat string
}

// Load reads .env if present and resolves the configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	dbPath := os.Getenv("HERMANAR_DB_PATH")
	if dbPath == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dir, "hermanar", "hermanar.db")
	}

	cfg := &Config{
		DatabasePath: dbPath,
		Port:         getenv("PORT", "8080"),
		RedisURL:     os.Getenv("REDIS_URL"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
	}
	return cfg, nil
}

// defaultDataDir mirrors the desktop app's storage location: %APPDATA% on
// Windows, ~/.local/share elsewhere, falling back to the working directory.
func defaultDataDir() (string, error) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return appData, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".", nil
	}
	return filepath.Join(home, ".local", "share"), nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
