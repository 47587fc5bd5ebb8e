package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListingsAPI     ListingsAPIConfig
	PageSize        int
	APIPort         string
	LogLevel        string
	OTelServiceName string
}

type ListingsAPIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
}

const DefaultPageSize = 20

func Load() *Config {
	pageSize := getEnvInt("PAGE_SIZE", DefaultPageSize)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Config{
		ListingsAPI: ListingsAPIConfig{
			BaseURL:   strings.TrimRight(getEnv("LISTINGS_API_BASE", "http://127.0.0.1:5000"), "/"),
			Timeout:   time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
			RateLimit: getEnvFloat("API_RATE_LIMIT", 0),
			RateBurst: getEnvInt("API_RATE_BURST", 1),
		},
		PageSize:        pageSize,
		APIPort:         getEnv("API_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "car-listings-viewer"),
	}
}

// LoadEnvFile reads KEY=value pairs from the given files (".env" when none
// are given) into the process environment. Variables already set win.
func LoadEnvFile(paths ...string) error {
	return godotenv.Load(paths...)
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
