// Package openrouter wraps the OpenRouter chat-completions API. One client
// serves three operations: wellness chat, text summarization and LLM-backed
// emotion detection.
package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/emotion/labelmap"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/resilience"
)

const (
	defaultTimeout = 30 * time.Second

	detectSystemPrompt = "You are an emotion detection AI. Analyze the text and identify the primary emotion expressed. " +
		"Output a JSON object with two fields: emotion (string: joy, sadness, anger, fear, surprise, love, neutral) " +
		"and confidence (number between 0-1). Use only these emotion categories."

	chatSystemPrompt = "You are a compassionate AI wellness assistant helping users with their emotional well-being. "
	chatSystemSuffix = "Provide supportive, empathetic responses that acknowledge their feelings and offer gentle guidance."
)

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	referer    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model, apiKey, referer string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		referer:    referer,
		httpClient: &http.Client{Timeout: defaultTimeout},
		executor:   executor,
	}
}

func (c *Client) Name() string { return "openrouter" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Classify asks the chat model for a strict-JSON emotion verdict and reduces
// the answer onto the closed label set.
func (c *Client) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	const op = "openrouter_classify"
	content, err := c.complete(ctx, op, completion{
		Messages: []message{
			{Role: "system", Content: detectSystemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens:   100,
		Temperature: 0.1,
		JSONObject:  true,
	})
	if err != nil {
		return domain.ClassificationResult{}, err
	}

	parsed := gjson.Parse(extractJSONObject(content))
	emotion := parsed.Get("emotion")
	confidence := parsed.Get("confidence")
	if !emotion.Exists() || !confidence.Exists() {
		return domain.ClassificationResult{}, domain.NewAdapterError(
			domain.FailureParseError, op, 0,
			fmt.Errorf("missing emotion or confidence in completion"),
		)
	}

	return domain.ClassificationResult{
		Emotion:    labelmap.Reduce(emotion.String()),
		Confidence: clamp01(confidence.Float()),
		ModelUsed:  c.model,
	}, nil
}

// Chat runs the wellness conversation through the configured model.
func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage, currentEmotion domain.EmotionLabel) (string, error) {
	system := chatSystemPrompt
	if currentEmotion != "" {
		system += fmt.Sprintf("The user's current emotion is: %s. ", currentEmotion)
	}
	system += chatSystemSuffix

	payload := make([]message, 0, len(messages)+1)
	payload = append(payload, message{Role: "system", Content: system})
	for _, m := range messages {
		payload = append(payload, message{Role: m.Role, Content: m.Content})
	}

	return c.complete(ctx, "openrouter_chat", completion{
		Messages:    payload,
		MaxTokens:   500,
		Temperature: 0.7,
	})
}

// Summarize produces a summary of at most maxLength characters.
func (c *Client) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	system := fmt.Sprintf(
		"You are an AI assistant that creates concise summaries. Create a brief summary of the given text in %d characters or less.",
		maxLength,
	)
	summary, err := c.complete(ctx, "openrouter_summarize", completion{
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
		MaxTokens:   150,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(summary) > maxLength && maxLength > 3 {
		summary = summary[:maxLength-3] + "..."
	}
	return summary, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// extractJSONObject trims markdown fences and prose around a JSON object.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
