package config

import (
	"os"
	"strings"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	PostgresDSN    string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	CORSOrigins    []string
}

func Load() *Config {
	return &Config{
		Port:           getenv("PORT", "8080"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		RedisAddr:      getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "valve-exports"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",
		CORSOrigins:    splitCSV(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
