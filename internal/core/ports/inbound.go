package ports

import (
	"context"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

// EmotionDetector is the inbound contract for the classification dispatch
// chain: rate limiter, cache, external classifier, rule-based fallback.
type EmotionDetector interface {
	Detect(ctx context.Context, identity, text string) (domain.ClassificationResult, error)
	DetectBatch(ctx context.Context, identity string, texts []string) (domain.BatchDetection, error)
}

// WellnessAssistant is the inbound contract for the chat fallback chain.
type WellnessAssistant interface {
	Chat(ctx context.Context, messages []domain.ChatMessage, currentEmotion domain.EmotionLabel, preferredModel string) (domain.ChatReply, error)
}

// SummaryService produces text summaries with a truncation fallback.
type SummaryService interface {
	Summarize(ctx context.Context, text string, maxLength int) (string, string, error)
}
