package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings, sourced from the environment with an
// optional .env file overlay.
type Config struct {
	// DataDir is the root directory for all persisted state.
	DataDir string
	// DBPath is the SQLite database file holding snapshots and capabilities.
	DBPath string
	// IndexPath is the bleve search index directory.
	IndexPath string
	// WatchFolders enables filesystem change notifications for registered
	// folders.
	WatchFolders bool
	// LogLevel is the textual slog level (debug, info, warn, error).
	LogLevel string
}

// Load builds a Config from the environment. A .env file in the working
// directory is merged in when present; real environment variables win.
func Load() (Config, error) {
	// Missing .env is the normal case, only report other failures.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	dataDir := os.Getenv("CADENZA_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		dataDir = filepath.Join(home, ".cadenza")
	}

	return Config{
		DataDir:      dataDir,
		DBPath:       getEnv("CADENZA_DB_PATH", filepath.Join(dataDir, "cadenza.db")),
		IndexPath:    getEnv("CADENZA_INDEX_PATH", filepath.Join(dataDir, "index.bleve")),
		WatchFolders: getBool("CADENZA_WATCH_FOLDERS", false),
		LogLevel:     getEnv("CADENZA_LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
