package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	ProfilePath string
	ProfileName string

	MaxConcurrentScans int
}

// LoadConfig loads runtime config from environment variables with sensible
// defaults. Supported env vars: DB_HOST, DB_PORT, DB_USER, DB_PASSWORD,
// DB_NAME, WEBSCAN_PROFILE_PATH, WEBSCAN_PROFILE_NAME, WEBSCAN_MAX_SCANS
func LoadConfig() *Config {
	host := getenvDefault("DB_HOST", "localhost")
	portStr := getenvDefault("DB_PORT", "5432")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 5432
	}
	user := getenvDefault("DB_USER", "webscan")
	pass := getenvDefault("DB_PASSWORD", "webscan")
	name := getenvDefault("DB_NAME", "webscan")

	maxScansStr := getenvDefault("WEBSCAN_MAX_SCANS", "4")
	maxScans, err := strconv.Atoi(maxScansStr)
	if err != nil || maxScans < 1 {
		maxScans = 4
	}

	return &Config{
		DBHost:             host,
		DBPort:             port,
		DBUser:             user,
		DBPassword:         pass,
		DBName:             name,
		ProfilePath:        getenvDefault("WEBSCAN_PROFILE_PATH", "./config"),
		ProfileName:        getenvDefault("WEBSCAN_PROFILE_NAME", "checks"),
		MaxConcurrentScans: maxScans,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
