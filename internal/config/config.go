// Package config loads showmarks settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/raphaelgruber/showmarks/internal/models"
)

// Config holds all configuration values.
type Config struct {
	// Catalog
	DataFile    string
	WatchData   bool
	DefaultSort models.SortMode

	// HTTP server
	ServerPort  string
	ServerURL   string
	CORSOrigins []string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		// Catalog
		DataFile:    getEnv("SHOWMARKS_DATA", "data.json"),
		WatchData:   getEnv("SHOWMARKS_WATCH", "false") == "true",
		DefaultSort: models.ParseSortMode(getEnv("SHOWMARKS_SORT", string(models.SortRelevance))),

		// Server
		ServerPort:  getEnv("SHOWMARKS_SERVER_PORT", "8484"),
		ServerURL:   getEnv("SHOWMARKS_SERVER_URL", ""),
		CORSOrigins: splitList(getEnv("SHOWMARKS_CORS_ORIGINS", "*")),

		// Logging
		LogFile:  getEnv("SHOWMARKS_LOG_FILE", "/tmp/showmarks.log"),
		LogLevel: parseLogLevel(getEnv("SHOWMARKS_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
