package config

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Addr           string
	DBPath         string
	MockMode       bool
	Debug          bool
	ScanInterval   time.Duration
	MaxScanAge     time.Duration
	ConnectTimeout time.Duration
	HistorySize    int // sighting queue depth
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	cfg.Addr = getEnv("WIFITRACK_ADDR", ":8080")
	cfg.DBPath = getEnv("WIFITRACK_DB", getDefaultDBPath())
	cfg.MockMode = getEnvBool("WIFITRACK_MOCK", false)
	cfg.Debug = getEnvBool("WIFITRACK_DEBUG", false)
	cfg.ScanInterval = getEnvDuration("WIFITRACK_SCAN_INTERVAL", 10*time.Second)
	cfg.MaxScanAge = getEnvDuration("WIFITRACK_MAX_SCAN_AGE", 15*time.Second)
	cfg.ConnectTimeout = getEnvDuration("WIFITRACK_CONNECT_TIMEOUT", 10*time.Second)
	cfg.HistorySize = getEnvInt("WIFITRACK_HISTORY_SIZE", 1000)

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite database")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Run in mock mode (simulation)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")
	flag.DurationVar(&cfg.ScanInterval, "scan-interval", cfg.ScanInterval, "Interval between scan requests")
	flag.DurationVar(&cfg.MaxScanAge, "max-scan-age", cfg.MaxScanAge, "Maximum age of a usable scan result")
	flag.DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "Timeout for hotspot connect attempts")
	flag.IntVar(&cfg.HistorySize, "history-size", cfg.HistorySize, "Sighting history queue depth")

	flag.Parse()

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("could not resolve home directory, using current dir", "error", err)
		return "wifitrack.db"
	}

	dir := filepath.Join(home, ".wifitrack")
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Warn("could not create .wifitrack directory, using current dir", "error", err)
		return "wifitrack.db"
	}

	return filepath.Join(dir, "wifitrack.db")
}
