package config

import (
	"os"
	"strconv"
	"strings"
)

// Config centralizes runtime settings for the API and the triage worker.
type Config struct {
	Port string

	AuthToken          string
	CORSAllowedOrigins []string

	DatabaseURL string

	LLMProvider string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAITimeoutMS  int
	OpenAIMaxRetries int

	AnthropicAPIKey string

	ModelClassifyPrimary  string
	ModelClassifyFallback string
	ModelRankPrimary      string
	ModelRankFallback     string

	SMSAPIKey    string
	SMSBaseURL   string
	SMSFrom      string
	SMSTimeoutMS int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisStream   string
	RedisDLQ      string
	RedisGroup    string
	RedisConsumer string

	RateLimitRPS   float64
	RateLimitBurst int

	WorkerEnabled bool
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		AuthToken:          getEnv("API_AUTH_TOKEN", ""),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		LLMProvider: getEnv("LLM_PROVIDER", "openai"),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAITimeoutMS:  getEnvInt("OPENAI_TIMEOUT_MS", 15000),
		OpenAIMaxRetries: getEnvInt("OPENAI_MAX_RETRIES", 2),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		ModelClassifyPrimary:  getEnv("MODEL_CLASSIFY_PRIMARY", ""),
		ModelClassifyFallback: getEnv("MODEL_CLASSIFY_FALLBACK", ""),
		ModelRankPrimary:      getEnv("MODEL_RANK_PRIMARY", ""),
		ModelRankFallback:     getEnv("MODEL_RANK_FALLBACK", ""),

		SMSAPIKey:    getEnv("SMS_API_KEY", ""),
		SMSBaseURL:   getEnv("SMS_BASE_URL", ""),
		SMSFrom:      getEnv("SMS_FROM", ""),
		SMSTimeoutMS: getEnvInt("SMS_TIMEOUT_MS", 10000),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisStream:   getEnv("REDIS_STREAM", "triage_jobs"),
		RedisDLQ:      getEnv("REDIS_DLQ_STREAM", "triage_jobs_dlq"),
		RedisGroup:    getEnv("REDIS_GROUP", "triage_workers"),
		RedisConsumer: getEnv("REDIS_CONSUMER", "api-1"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		WorkerEnabled: getEnvBool("WORKER_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
