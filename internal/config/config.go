package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	Port           string
	LogLevel       string
	Environment    string
	AllowedOrigins []string

	// Upstream kegiatan API (the legacy REST backend).
	KegiatanAPIURL   string
	KegiatanAPIToken string

	RedisURL string

	// Session/auth settings.
	JWTSecret     string
	SessionTTL    time.Duration
	AdminUsername string
	AdminPassword string
}

// Load loads configuration from environment variables, reading a .env file
// if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Environment:      getEnv("ENVIRONMENT", "production"),
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		KegiatanAPIURL:   strings.TrimRight(getEnv("KEGIATAN_API_URL", ""), "/"),
		KegiatanAPIToken: getEnv("KEGIATAN_API_TOKEN", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		SessionTTL:       getDurationEnv("SESSION_TTL", 12*time.Hour),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.KegiatanAPIURL == "" {
		return nil, fmt.Errorf("KEGIATAN_API_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable with a fallback value.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDurationEnv parses a duration environment variable, accepting either a
// Go duration string ("12h") or a plain number of seconds.
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice.
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
