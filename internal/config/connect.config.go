package config

import (
	"os"
	"time"
)

type StreamConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

type AppConfig struct {
	HTTPAddr   string
	RedisAddr  string
	RedisPass  string
	JWTSecret  string
	SessionTTL time.Duration
	Stream     StreamConfig
}

func Load() AppConfig {
	return AppConfig{
		HTTPAddr:   getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:  getEnv("REDIS_ADDR", "redis:6379"),
		RedisPass:  getEnv("REDIS_PASS", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		Stream: StreamConfig{
			APIKey:    getEnv("STREAM_API_KEY", ""),
			APISecret: getEnv("STREAM_API_SECRET", ""),
			BaseURL:   getEnv("STREAM_BASE_URL", "https://chat.stream-io-api.com"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
