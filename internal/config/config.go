package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	HuggingFaceAPIKey string
	HuggingFaceURL    string
	HuggingFaceModel  string

	OpenRouterAPIKey  string
	OpenRouterURL     string
	OpenRouterModel   string
	OpenRouterReferer string

	GeminiAPIKey string
	GeminiModel  string

	CacheSize       int
	CacheTTLSeconds int

	RateLimitWindowSeconds int
	RateLimitMaxCalls      int

	APIRateLimitRPS   int
	APIRateLimitBurst int

	BackpressureMaxInflight    int
	BackpressureTimeoutSeconds int

	RetryMaxAttempts     int
	RetryBaseDelayMillis int
	RetryMaxDelayMillis  int
	BreakerMinRequests   int
	BreakerFailureRatio  float64
	BreakerOpenSeconds   int
	BreakerHalfOpenCalls int

	BatchLimit int

	CORSAllowedOrigins string
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		HuggingFaceAPIKey: mustEnv("HUGGINGFACE_API_KEY", ""),
		HuggingFaceURL:    mustEnv("HUGGINGFACE_URL", "https://api-inference.huggingface.co/models"),
		HuggingFaceModel:  mustEnv("HUGGINGFACE_MODEL", "j-hartmann/emotion-english-distilroberta-base"),

		OpenRouterAPIKey:  mustEnv("OPENROUTER_API_KEY", ""),
		OpenRouterURL:     mustEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   mustEnv("OPENROUTER_MODEL", "qwen/qwen2.5-72b-instruct"),
		OpenRouterReferer: mustEnv("OPENROUTER_REFERER", "https://mindmate-emotions-flow.app"),

		GeminiAPIKey: mustEnv("GEMINI_API_KEY", ""),
		GeminiModel:  mustEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),

		CacheSize:       mustEnvInt("CACHE_SIZE", 1000),
		CacheTTLSeconds: mustEnvInt("CACHE_TTL_SECONDS", 3600),

		RateLimitWindowSeconds: mustEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitMaxCalls:      mustEnvInt("RATE_LIMIT_MAX_CALLS", 30),

		APIRateLimitRPS:   mustEnvInt("API_RATE_LIMIT_RPS", 50),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 100),

		BackpressureMaxInflight:    mustEnvInt("BACKPRESSURE_MAX_INFLIGHT", 256),
		BackpressureTimeoutSeconds: mustEnvInt("BACKPRESSURE_TIMEOUT_SECONDS", 5),

		RetryMaxAttempts:     mustEnvInt("RETRY_MAX_ATTEMPTS", 2),
		RetryBaseDelayMillis: mustEnvInt("RETRY_BASE_DELAY_MILLIS", 200),
		RetryMaxDelayMillis:  mustEnvInt("RETRY_MAX_DELAY_MILLIS", 1000),
		BreakerMinRequests:   mustEnvInt("BREAKER_MIN_REQUESTS", 10),
		BreakerFailureRatio:  mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenSeconds:   mustEnvInt("BREAKER_OPEN_SECONDS", 30),
		BreakerHalfOpenCalls: mustEnvInt("BREAKER_HALF_OPEN_CALLS", 2),

		BatchLimit: mustEnvInt("BATCH_LIMIT", 50),

		CORSAllowedOrigins: mustEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
