package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	AutoMigrate bool // Create missing tables on startup
	DBMaxConns  int32
	DBMinConns  int32
	// Auth
	JWKSURL            string // RS256/ES256 verification against a JWKS endpoint
	JWTSecret          string // HS256 shared secret, for local development and tests
	RequiredCapability string // Capability every /api request must carry
	// Debug log (rotating file, readable over /debug/log)
	DebugLog           bool
	DebugLogFile       string
	DebugLogMaxSizeMB  int
	DebugLogMaxBackups int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        getTablePrefix(env),
		AutoMigrate:        getEnv("AUTO_MIGRATE", getDefaultAutoMigrate(env)) == "true",
		DBMaxConns:         int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:         int32(getEnvInt("DB_MIN_CONNS", 0)),
		JWKSURL:            getEnv("JWKS_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		RequiredCapability: getEnv("REQUIRED_CAPABILITY", "upload_files"),
		// Debug log is written only when explicitly enabled
		DebugLog:           getEnv("DEBUG_LOG", "false") == "true",
		DebugLogFile:       getEnv("DEBUG_LOG_FILE", "logs/media-folders-debug.log"),
		DebugLogMaxSizeMB:  getEnvInt("DEBUG_LOG_MAX_SIZE_MB", 10),
		DebugLogMaxBackups: getEnvInt("DEBUG_LOG_MAX_BACKUPS", 3),
	}
}

// Validate reports missing settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWKSURL == "" && c.JWTSecret == "" {
		errs = append(errs, errors.New("one of JWKS_URL or JWT_SECRET is required"))
	}
	if c.Environment == "prod" && c.JWKSURL == "" {
		errs = append(errs, errors.New("JWKS_URL is required in prod"))
	}
	return errors.Join(errs...)
}

// IsDev reports whether the server runs in the dev environment
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// AllowedOrigins splits CORSOrigins on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// getDefaultAutoMigrate applies the schema on startup outside prod
func getDefaultAutoMigrate(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
