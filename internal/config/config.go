package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	BackendURL      string
	RedisAddr       string
	SessionBackend  string
	QueueBackend    string
	SendLogs        bool
	LogSinkURL      string
	AppLogLevel     string
	APILogLevel     string
	UILogLevel      string
	QueryStaleTime  time.Duration
	SessionTTL      time.Duration
	RateLimitPerMin int
	AllowedOrigins  []string
}

// Load returns application config populated from environment variables with sensible defaults.
// BackendURL may be empty; the API client then falls back to the page origin.
func Load() App {
	port := getEnv("HTTP_PORT", "8080")
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        port,
		BackendURL:      strings.TrimRight(firstEnv("HRM_BACKEND_URL", "NEXT_PUBLIC_BACKEND_URL"), "/"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		SessionBackend:  getEnv("SESSION_BACKEND", "memory"),
		QueueBackend:    getEnv("QUEUE_BACKEND", "memory"),
		SendLogs:        boolEnv("SEND_LOGS", false),
		LogSinkURL:      getEnv("LOG_SINK_URL", "http://localhost:"+port+"/api/logs"),
		AppLogLevel:     getEnv("APP_LOG_LEVEL", "info"),
		APILogLevel:     getEnv("API_LOG_LEVEL", "info"),
		UILogLevel:      getEnv("UI_LOG_LEVEL", "info"),
		QueryStaleTime:  durationEnv("QUERY_STALE_TIME", 30*time.Second),
		SessionTTL:      durationEnv("SESSION_TTL", 12*time.Hour),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		AllowedOrigins:  listEnv("ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Production reports whether the process runs with production settings.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if val := os.Getenv(k); val != "" {
			return val
		}
	}
	return ""
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
