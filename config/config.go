// Package config provides configuration for the session service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int
	BaseURL  string

	// Database
	DatabaseURL string

	// Generation backend
	GenerateURL     string
	GenerateAPIKey  string
	GenerateModel   string
	GenerateTimeout time.Duration

	// Uploads
	UploadDir string
}

// Load loads configuration from the environment. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "file:uicraft.db?cache=shared&mode=rwc"),
		GenerateURL:     getEnv("GENERATE_URL", "http://localhost:4000"),
		GenerateAPIKey:  getEnv("GENERATE_API_KEY", ""),
		GenerateModel:   getEnv("GENERATE_MODEL", "gemini-1.5-flash"),
		GenerateTimeout: time.Duration(getEnvInt("GENERATE_TIMEOUT_MS", 30000)) * time.Millisecond,
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
