package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/ports"
)

const FallbackModelName = "fallback-response"

// ChatUseCase walks the configured chat providers in order and falls back to
// the canned message catalog when none of them answers.
type ChatUseCase struct {
	providers []ports.ChatProvider
	catalog   ports.MessageCatalog
	log       *slog.Logger
}

func NewChatUseCase(providers []ports.ChatProvider, catalog ports.MessageCatalog, log *slog.Logger) *ChatUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &ChatUseCase{providers: providers, catalog: catalog, log: log}
}

// Chat produces an assistant reply. preferredModel moves the matching
// provider to the front of the chain; an unknown preference keeps the
// configured order.
func (uc *ChatUseCase) Chat(ctx context.Context, messages []domain.ChatMessage, currentEmotion domain.EmotionLabel, preferredModel string) (domain.ChatReply, error) {
	if len(messages) == 0 {
		return domain.ChatReply{}, domain.WrapError(domain.ErrInvalidInput, "chat", fmt.Errorf("messages is required"))
	}
	if !domain.IsValidEmotion(string(currentEmotion)) {
		currentEmotion = domain.EmotionNeutral
	}

	for _, provider := range uc.ordered(preferredModel) {
		reply, err := provider.Chat(ctx, messages, currentEmotion)
		if err == nil && strings.TrimSpace(reply) != "" {
			return domain.ChatReply{
				Message:        reply,
				ModelUsed:      provider.Name(),
				EmotionContext: currentEmotion,
			}, nil
		}
		if err != nil {
			uc.log.Warn("chat provider failed, trying next",
				slog.String("provider", provider.Name()),
				slog.String("error", err.Error()),
			)
		}
	}

	return domain.ChatReply{
		Message:        uc.catalog.ChatFallback(currentEmotion),
		ModelUsed:      FallbackModelName,
		EmotionContext: currentEmotion,
	}, nil
}

func (uc *ChatUseCase) ordered(preferredModel string) []ports.ChatProvider {
	preferred := strings.ToLower(strings.TrimSpace(preferredModel))
	if preferred == "" {
		return uc.providers
	}
	ordered := make([]ports.ChatProvider, 0, len(uc.providers))
	for _, p := range uc.providers {
		if strings.Contains(preferred, p.Name()) || p.Name() == preferred {
			ordered = append(ordered, p)
		}
	}
	for _, p := range uc.providers {
		if !strings.Contains(preferred, p.Name()) && p.Name() != preferred {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
