package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RateLimitPolicy is one route-class limit tuple.
type RateLimitPolicy struct {
	Max     int
	Window  time.Duration
	PerUser bool
}

// RateLimitConfig carries the global switch, the backend selection and the
// per-route-class policies.
type RateLimitConfig struct {
	Enabled  bool
	Backend  string // "memory" or "redis"
	Standard RateLimitPolicy
	Auth     RateLimitPolicy
	AI       RateLimitPolicy
	Public   RateLimitPolicy
}

type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	RedisAddr  string
	RedisPass  string
	ServerAddr string
	JWTSecret  string
	RateLimit  RateLimitConfig
	AI         AIConfig
}

func LoadConfig() *Config {
	godotenv.Load()
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASS"),
		DBName:     getEnv("DB_NAME", "craftfolio"),
		DBPort:     getEnv("DB_PORT", "5432"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:  os.Getenv("REDIS_PASS"),
		ServerAddr: getEnv("PORT", ":8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			Backend: getEnv("RATE_LIMIT_BACKEND", "memory"),
			// AI and auth routes are materially tighter than standard API
			// routes. AI is always per-user, public always per-IP.
			Standard: loadPolicy("RATE_LIMIT_STANDARD", 100, time.Minute, true),
			Auth:     loadPolicy("RATE_LIMIT_AUTH", 10, 15*time.Minute, false),
			AI:       loadPolicy("RATE_LIMIT_AI", 10, time.Minute, true),
			Public:   loadPolicy("RATE_LIMIT_PUBLIC", 60, time.Minute, false),
		},
		AI: AIConfig{
			APIKey:      os.Getenv("AI_API_KEY"),
			Model:       getEnv("AI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvFloat("AI_TEMPERATURE", 0.7),
			MaxTokens:   getEnvInt("AI_MAX_TOKENS", 1024),
		},
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func loadPolicy(prefix string, max int, window time.Duration, perUser bool) RateLimitPolicy {
	return RateLimitPolicy{
		Max:     getEnvInt(prefix+"_MAX", max),
		Window:  time.Duration(getEnvInt(prefix+"_WINDOW_SECONDS", int(window.Seconds()))) * time.Second,
		PerUser: getEnvBool(prefix+"_PER_USER", perUser),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
