package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/config"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/classifier"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/lexicon"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/ports"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/usecase"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/cache"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/emotion/huggingface"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/llm/gemini"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/llm/openrouter"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/messages"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/ratelimit"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/resilience"
	"github.com/raazi29/mindmate-emotions-flow/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	Cache   ports.ResultCache
	Catalog ports.MessageCatalog

	DetectUC    *usecase.DetectUseCase
	ChatUC      *usecase.ChatUseCase
	SummarizeUC *usecase.SummarizeUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	catalog, err := messages.Load()
	if err != nil {
		return nil, fmt.Errorf("load message catalog: %w", err)
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		RetryInitialBackoff: time.Duration(cfg.RetryBaseDelayMillis) * time.Millisecond,
		RetryMaxBackoff:     time.Duration(cfg.RetryMaxDelayMillis) * time.Millisecond,

		BreakerMinRequests:      uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      time.Duration(cfg.BreakerOpenSeconds) * time.Second,
		BreakerHalfOpenMaxCalls: uint32(cfg.BreakerHalfOpenCalls),
	})

	serverMetrics := metrics.NewHTTPServerMetrics("emotions-api")
	resultCache := cache.NewResultCache(cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	limiter := ratelimit.NewSlidingWindow(time.Duration(cfg.RateLimitWindowSeconds)*time.Second, cfg.RateLimitMaxCalls)
	ruleBased := classifier.NewRuleBased(lexicon.New())

	var external ports.EmotionClassifier
	if cfg.HuggingFaceAPIKey != "" {
		external = huggingface.New(cfg.HuggingFaceURL, cfg.HuggingFaceModel, cfg.HuggingFaceAPIKey, executor)
	}

	var openRouterClient *openrouter.Client
	if cfg.OpenRouterAPIKey != "" {
		openRouterClient = openrouter.New(cfg.OpenRouterURL, cfg.OpenRouterModel, cfg.OpenRouterAPIKey, cfg.OpenRouterReferer, executor)
		if external == nil {
			// No dedicated emotion model available; the chat model can
			// still classify, just slower.
			external = openRouterClient
		}
	}

	providers := make([]ports.ChatProvider, 0, 2)
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, executor)
		if err != nil {
			log.Warn("gemini client unavailable", slog.String("error", err.Error()))
		} else {
			providers = append(providers, geminiClient)
		}
	}
	if openRouterClient != nil {
		providers = append(providers, openRouterClient)
	}

	var summarizer ports.Summarizer
	if openRouterClient != nil {
		summarizer = openRouterClient
	}

	detectUC := usecase.NewDetectUseCase(limiter, resultCache, external, ruleBased, serverMetrics, log, cfg.BatchLimit)
	chatUC := usecase.NewChatUseCase(providers, catalog, log)
	summarizeUC := usecase.NewSummarizeUseCase(summarizer, log)

	return &App{
		Config:  cfg,
		Metrics: serverMetrics,

		Cache:   resultCache,
		Catalog: catalog,

		DetectUC:    detectUC,
		ChatUC:      chatUC,
		SummarizeUC: summarizeUC,

		closeFn: func() {
			resultCache.Clear()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
