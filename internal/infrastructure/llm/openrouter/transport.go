package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/resilience"
)

type completion struct {
	Messages    []message
	MaxTokens   int
	Temperature float64
	JSONObject  bool
}

// complete posts one chat completion and returns the first choice's content.
func (c *Client) complete(ctx context.Context, operation string, req completion) (string, error) {
	if c.apiKey == "" {
		return "", domain.NewAdapterError(domain.FailureUnavailable, operation, 0,
			fmt.Errorf("api key not configured"))
	}

	body := map[string]any{
		"model":       c.model,
		"messages":    req.Messages,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}
	if req.JSONObject {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	var content string
	err := c.executor.Execute(ctx, operation, func(ctx context.Context) error {
		raw, err := c.post(ctx, operation, body)
		if err != nil {
			return err
		}
		result := gjson.GetBytes(raw, "choices.0.message.content")
		if !result.Exists() || strings.TrimSpace(result.String()) == "" {
			return domain.NewAdapterError(domain.FailureParseError, operation, 0,
				fmt.Errorf("no completion choices in response"))
		}
		content = strings.TrimSpace(result.String())
		return nil
	}, resilience.ClassifyAdapterError)
	if err != nil {
		return "", foldFailure(operation, err)
	}
	return content, nil
}

func (c *Client) post(ctx context.Context, operation string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.NewAdapterError(domain.FailureParseError, operation, 0,
			fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewAdapterError(domain.FailureUnavailable, operation, 0, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, domain.NewAdapterError(domain.FailureTimeout, operation, 0, err)
		}
		return nil, domain.NewAdapterError(domain.FailureUnavailable, operation, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domain.NewAdapterError(domain.FailureUnavailable, operation, 0, err)
	}
	if resp.StatusCode >= 300 {
		return nil, domain.NewAdapterError(domain.FailureHTTPError, operation, resp.StatusCode,
			fmt.Errorf("status %s: %s", resp.Status, truncate(string(raw), 256)))
	}
	return raw, nil
}

// foldFailure keeps typed adapter errors and folds everything else, open
// breakers included, into an unavailable failure.
func foldFailure(operation string, err error) error {
	var adapterErr *domain.AdapterError
	if errors.As(err, &adapterErr) {
		return err
	}
	return domain.NewAdapterError(domain.FailureUnavailable, operation, 0, err)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
