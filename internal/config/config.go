package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	GeminiAPIKey string
	GeminiModel  string
	AIStubMode   bool

	// Per-user request budget for the /api/ai routes, per minute.
	AIRateLimit int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:         getEnvWithDefault("PORT", "8080"),
		Env:          getEnvWithDefault("ENV", "development"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     getEnvWithDefault("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnvWithDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		AIStubMode:   getEnvWithDefault("AI_STUB_MODE", "false") == "true",
		AIRateLimit:  getEnvIntWithDefault("AI_RATE_LIMIT_PER_MINUTE", 10),
		LogLevel:     getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvWithDefault("LOG_FORMAT", "text"),
	}

	// Warn if using default JWT secret (insecure for production)
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default JWT_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
