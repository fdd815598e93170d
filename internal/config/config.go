package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	POS       POSConfig
	Sync      SyncConfig
	Engine    EngineConfig
	AI        AIConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// POSConfig holds the POS/ERP feed connection settings
type POSConfig struct {
	URL          string
	Database     string
	Username     string
	Password     string
	SyncInterval int // in minutes
}

// SyncConfig holds field-store sync coordinator settings
type SyncConfig struct {
	Enabled        bool
	CounterpartURL string
	APIKey         string
	TimeoutSeconds int
}

// EngineConfig holds correlation/classification tuning knobs.
// BatchSize is a pure performance parameter; it never changes results.
type EngineConfig struct {
	BatchSize            int
	QuarantineCategories []string
}

// AIConfig holds optional Gemini triage settings
type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3220"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "rentrack"),
		},
		POS: POSConfig{
			URL:          os.Getenv("POS_URL"),
			Database:     os.Getenv("POS_DATABASE"),
			Username:     os.Getenv("POS_USERNAME"),
			Password:     os.Getenv("POS_PASSWORD"),
			SyncInterval: getEnvInt("POS_SYNC_INTERVAL", 15),
		},
		Sync: SyncConfig{
			Enabled:        getEnv("SYNC_ENABLED", "false") == "true",
			CounterpartURL: os.Getenv("SYNC_COUNTERPART_URL"),
			APIKey:         os.Getenv("SYNC_API_KEY"),
			TimeoutSeconds: getEnvInt("SYNC_TIMEOUT_SECONDS", 5),
		},
		Engine: EngineConfig{
			BatchSize:            getEnvInt("ENGINE_BATCH_SIZE", 1000),
			QuarantineCategories: splitList(getEnv("POS_QUARANTINE_CATEGORIES", "UNUSED,NON CURRENT ITEMS")),
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			Model:        getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// splitList splits a comma-separated env value, trimming blanks
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
