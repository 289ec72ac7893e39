package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/ports"
)

const (
	DefaultSummaryLength = 200
	// Texts shorter than this are returned verbatim.
	summaryFloor = 100
)

// SummarizeUseCase condenses journal entries through the configured
// summarizer, degrading to plain truncation when it fails.
type SummarizeUseCase struct {
	summarizer ports.Summarizer
	log        *slog.Logger
}

func NewSummarizeUseCase(summarizer ports.Summarizer, log *slog.Logger) *SummarizeUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &SummarizeUseCase{summarizer: summarizer, log: log}
}

// Summarize returns the summary and the name of the path that produced it.
func (uc *SummarizeUseCase) Summarize(ctx context.Context, text string, maxLength int) (string, string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", "", domain.WrapError(domain.ErrInvalidInput, "summarize", fmt.Errorf("text is required"))
	}
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}
	if len(trimmed) < summaryFloor || len(trimmed) <= maxLength {
		return trimmed, "verbatim", nil
	}

	if uc.summarizer != nil {
		summary, err := uc.summarizer.Summarize(ctx, trimmed, maxLength)
		if err == nil && strings.TrimSpace(summary) != "" {
			return summary, "summarizer", nil
		}
		if err != nil {
			uc.log.Warn("summarizer failed, truncating instead", slog.String("error", err.Error()))
		}
	}

	return truncate(trimmed, maxLength), "truncation", nil
}

func truncate(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return text[:maxLength]
	}
	return text[:maxLength-3] + "..."
}
