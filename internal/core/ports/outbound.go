package ports

import (
	"context"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

// EmotionClassifier wraps a remote emotion-detection service. Implementations
// must reduce external labels to the closed EmotionLabel set before returning;
// any error triggers the rule-based fallback in the dispatch layer.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)
}

// ChatProvider wraps a remote LLM chat service.
type ChatProvider interface {
	Name() string
	Chat(ctx context.Context, messages []domain.ChatMessage, currentEmotion domain.EmotionLabel) (string, error)
}

// Summarizer produces a short summary of text, capped at maxLength characters.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength int) (string, error)
}

// ResultCache stores classification results by request fingerprint.
type ResultCache interface {
	Get(key string) (domain.ClassificationResult, bool)
	Put(key string, value domain.ClassificationResult)
	Clear()
}

// RateLimiter admits or rejects a call for a client identity.
type RateLimiter interface {
	Admit(identity string) bool
	RetryAfter(identity string) time.Duration
}

// MessageCatalog serves canned supportive messages and chat fallbacks.
type MessageCatalog interface {
	Random(msgType string, emotion domain.EmotionLabel) (string, error)
	ChatFallback(emotion domain.EmotionLabel) string
}

// DetectionObserver receives dispatch outcomes for instrumentation.
type DetectionObserver interface {
	CacheHit()
	CacheMiss()
	RateLimited()
	AdapterFailure(kind domain.AdapterFailureKind)
	Fallback()
	Detection(modelUsed string, elapsed time.Duration)
}

// NopObserver discards all observations.
type NopObserver struct{}

func (NopObserver) CacheHit()                                     {}
func (NopObserver) CacheMiss()                                    {}
func (NopObserver) RateLimited()                                  {}
func (NopObserver) AdapterFailure(kind domain.AdapterFailureKind) {}
func (NopObserver) Fallback()                                     {}
func (NopObserver) Detection(modelUsed string, elapsed time.Duration) {
}
