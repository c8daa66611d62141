package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort           string
	StorageBackend       string // "memory" or "sql"
	DatabaseURL          string
	DatabaseDriver       string // "postgres" or "mysql"
	DBHost               string // optional DSN host override (connection poolers)
	DBSSLMode            string // optional sslmode override
	RedisURL             string
	JWTSecret            string
	ClientSessionTTL     time.Duration
	AdminSessionTTL      time.Duration
	SessionSweepInterval time.Duration
	RateLimitPerHour     int
	CacheTTL             time.Duration
	UploadDir            string
	MaxUploadSize        int64
	EnableWebSocket      bool
	CORSAllowedOrigins   []string
}

var AppConfig *Config

func LoadConfig() error {

	godotenv.Load()

	AppConfig = &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		StorageBackend:       getEnv("STORAGE_BACKEND", "memory"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		DatabaseDriver:       getEnv("DATABASE_DRIVER", "postgres"),
		DBHost:               os.Getenv("DB_HOST"),
		DBSSLMode:            os.Getenv("DB_SSL_MODE"),
		RedisURL:             getEnv("REDIS_URL", "localhost:6379"),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		ClientSessionTTL:     parseDuration(getEnv("CLIENT_SESSION_TTL", "24h")),
		AdminSessionTTL:      parseDuration(getEnv("ADMIN_SESSION_TTL", "8h")),
		SessionSweepInterval: parseDuration(getEnv("SESSION_SWEEP_INTERVAL", "15m")),
		RateLimitPerHour:     parseInt(getEnv("RATE_LIMIT_PER_HOUR", "1000")),
		CacheTTL:             parseDuration(getEnv("CACHE_TTL", "5m")),
		UploadDir:            getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:        parseInt64(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		EnableWebSocket:      parseBool(getEnv("ENABLE_WEBSOCKET", "true")),
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Hour
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	if err := LoadConfig(); err != nil {
		log.Fatal("Failed to load config:", err)
	}
}
