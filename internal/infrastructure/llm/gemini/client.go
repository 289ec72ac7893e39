// Package gemini wraps the Gemini API as a wellness chat provider. The
// conversation is flattened into a single prompt with the wellness system
// context, mirroring how the service has always talked to Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/resilience"
)

const systemContext = "You are a compassionate AI wellness assistant helping users with their emotional well-being. "

type Client struct {
	client   *genai.Client
	model    string
	executor *resilience.Executor
}

func New(ctx context.Context, apiKey, model string, executor *resilience.Executor) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: client, model: model, executor: executor}, nil
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Chat(ctx context.Context, messages []domain.ChatMessage, currentEmotion domain.EmotionLabel) (string, error) {
	const op = "gemini_chat"

	prompt := buildPrompt(messages, currentEmotion)

	var reply string
	err := c.executor.Execute(ctx, op, func(ctx context.Context) error {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.7),
		})
		if err != nil {
			return domain.NewAdapterError(domain.FailureUnavailable, op, 0, err)
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return domain.NewAdapterError(domain.FailureParseError, op, 0,
				fmt.Errorf("empty generation response"))
		}
		reply = text
		return nil
	}, resilience.ClassifyAdapterError)
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return "", domain.NewAdapterError(domain.FailureUnavailable, op, 0, err)
		}
		return "", err
	}
	return reply, nil
}

func buildPrompt(messages []domain.ChatMessage, currentEmotion domain.EmotionLabel) string {
	var b strings.Builder
	b.WriteString(systemContext)
	if currentEmotion != "" {
		fmt.Fprintf(&b, "The user's current emotion is: %s. ", currentEmotion)
	}
	b.WriteString("Provide supportive, empathetic responses that acknowledge their feelings and offer gentle guidance.\n")

	for _, msg := range messages {
		switch msg.Role {
		case "user":
			fmt.Fprintf(&b, "User: %s\n", msg.Content)
		case "assistant":
			fmt.Fprintf(&b, "Assistant: %s\n", msg.Content)
		}
	}
	b.WriteString("Assistant:")
	return b.String()
}
