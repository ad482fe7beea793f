// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Config holds the core runtime configuration.  Each field corresponds to
// an environment variable.  Optional feature groups (cache, rate limit,
// queue, building layout, admin) have their own loaders with defaults.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on
	Storage      string        // "mysql" (default) or "memory"
	DBUser       string        // database username
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	JWTSecret    string        // secret used to sign device and admin tokens
	AccessTTLMin int           // admin access token time‑to‑live in minutes
	DeviceCookie string        // name of the device identity cookie
	DeviceTTL    time.Duration // lifetime of the device cookie and its ownership entries
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Database variables
// are only required when STORAGE is mysql.
func Load() Config {
	cfg := Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		Storage:      strings.ToLower(envStr("STORAGE", StorageMySQL)),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		DeviceCookie: envStr("DEVICE_COOKIE", "terraza_device"),
		DeviceTTL:    envDur("DEVICE_TTL", 400*24*time.Hour),
	}
	switch cfg.Storage {
	case StorageMemory:
	case StorageMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	default:
		log.Fatalf("invalid STORAGE %q (want mysql or memory)", cfg.Storage)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
