package config

import (
	"os"
)

// Config holds the digital twin's settings.
type Config struct {
	ListenAddr string
	DBPath     string
	// SeedStart and SeedEnd bound the business days seeded on startup (YYYY-MM-DD).
	SeedStart string
	SeedEnd   string
	// Quiet disables per-request access logs.
	Quiet bool
}

// Load reads the twin's settings from DT_* environment variables.
func Load() *Config {
	return &Config{
		ListenAddr: getEnv("DT_LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DT_DB_PATH", "/data/db/valet.db"),
		SeedStart:  getEnv("DT_SEED_START", "2017-01-03"),
		SeedEnd:    getEnv("DT_SEED_END", "2025-12-31"),
		Quiet:      getEnv("DT_QUIET", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var result int
	for _, c := range v {
		if c < '0' || c > '9' {
			return defaultValue
		}
		result = result*10 + int(c-'0')
	}
	return result
}
