package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/config"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/ports"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/usecase"
	"github.com/raazi29/mindmate-emotions-flow/internal/observability/metrics"
)

type Router struct {
	detectUC    *usecase.DetectUseCase
	chatUC      *usecase.ChatUseCase
	summarizeUC *usecase.SummarizeUseCase
	catalog     ports.MessageCatalog
	cache       ports.ResultCache
	metrics     *metrics.HTTPServerMetrics
	cfg         config.Config
}

func NewRouter(
	detectUC *usecase.DetectUseCase,
	chatUC *usecase.ChatUseCase,
	summarizeUC *usecase.SummarizeUseCase,
	catalog ports.MessageCatalog,
	cache ports.ResultCache,
	serverMetrics *metrics.HTTPServerMetrics,
	cfg config.Config,
) *Router {
	return &Router{
		detectUC:    detectUC,
		chatUC:      chatUC,
		summarizeUC: summarizeUC,
		catalog:     catalog,
		cache:       cache,
		metrics:     serverMetrics,
		cfg:         cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/status", rt.status)
	mux.HandleFunc("/api/detect-emotion", rt.detectEmotion)
	mux.HandleFunc("/api/batch-detect-emotion", rt.batchDetectEmotion)
	mux.HandleFunc("/api/wellness-assistant", rt.wellnessAssistant)
	mux.HandleFunc("/api/summarize", rt.summarize)
	mux.HandleFunc("/message/", rt.supportiveMessage)
	mux.HandleFunc("/refresh-cache", rt.refreshCache)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(
		handler,
		rt.cfg.BackpressureMaxInflight,
		time.Duration(rt.cfg.BackpressureTimeoutSeconds)*time.Second,
	)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = corsMiddleware(handler, rt.cfg.CORSAllowedOrigins)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	cacheEntries := 0
	if counter, ok := rt.cache.(interface{ Len() int }); ok {
		cacheEntries = counter.Len()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                 "ok",
		"service":                "emotion-detection",
		"rule_based_ready":       true,
		"external_configured":    rt.cfg.HuggingFaceAPIKey != "" || rt.cfg.OpenRouterAPIKey != "",
		"huggingface_configured": rt.cfg.HuggingFaceAPIKey != "",
		"openrouter_configured":  rt.cfg.OpenRouterAPIKey != "",
		"gemini_configured":      rt.cfg.GeminiAPIKey != "",
		"cache_entries":          cacheEntries,
		"supported_emotions":     domain.AllEmotions(),
	})
}

func (rt *Router) refreshCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rt.cache.Clear()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cache cleared successfully",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
