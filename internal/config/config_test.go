package config

import "testing"

func TestLoadIncludesDetectionDefaults(t *testing.T) {
	t.Setenv("CACHE_SIZE", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "")
	t.Setenv("RATE_LIMIT_MAX_CALLS", "")
	t.Setenv("BATCH_LIMIT", "")
	t.Setenv("HUGGINGFACE_MODEL", "")

	cfg := Load()
	if cfg.CacheSize != 1000 {
		t.Fatalf("expected default cache size 1000, got %d", cfg.CacheSize)
	}
	if cfg.CacheTTLSeconds != 3600 {
		t.Fatalf("expected default cache ttl 3600, got %d", cfg.CacheTTLSeconds)
	}
	if cfg.RateLimitWindowSeconds != 60 {
		t.Fatalf("expected default rate limit window 60, got %d", cfg.RateLimitWindowSeconds)
	}
	if cfg.RateLimitMaxCalls != 30 {
		t.Fatalf("expected default rate limit max calls 30, got %d", cfg.RateLimitMaxCalls)
	}
	if cfg.BatchLimit != 50 {
		t.Fatalf("expected default batch limit 50, got %d", cfg.BatchLimit)
	}
	if cfg.HuggingFaceModel != "j-hartmann/emotion-english-distilroberta-base" {
		t.Fatalf("expected default huggingface model, got %q", cfg.HuggingFaceModel)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CACHE_SIZE", "250")
	t.Setenv("RATE_LIMIT_MAX_CALLS", "5")
	t.Setenv("BREAKER_FAILURE_RATIO", "0.75")
	t.Setenv("OPENROUTER_MODEL", "anthropic/claude-3-haiku")

	cfg := Load()
	if cfg.CacheSize != 250 {
		t.Fatalf("expected cache size 250, got %d", cfg.CacheSize)
	}
	if cfg.RateLimitMaxCalls != 5 {
		t.Fatalf("expected rate limit max calls 5, got %d", cfg.RateLimitMaxCalls)
	}
	if cfg.BreakerFailureRatio != 0.75 {
		t.Fatalf("expected breaker failure ratio 0.75, got %v", cfg.BreakerFailureRatio)
	}
	if cfg.OpenRouterModel != "anthropic/claude-3-haiku" {
		t.Fatalf("expected openrouter model override, got %q", cfg.OpenRouterModel)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CACHE_SIZE", "lots")
	t.Setenv("BREAKER_FAILURE_RATIO", "half")

	cfg := Load()
	if cfg.CacheSize != 1000 {
		t.Fatalf("expected fallback cache size 1000, got %d", cfg.CacheSize)
	}
	if cfg.BreakerFailureRatio != 0.5 {
		t.Fatalf("expected fallback breaker failure ratio 0.5, got %v", cfg.BreakerFailureRatio)
	}
}
