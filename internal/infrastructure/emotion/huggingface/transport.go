package huggingface

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

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/resilience"
)

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.NewAdapterError(domain.FailureParseError, "huggingface_classify", 0,
			fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.NewAdapterError(domain.FailureUnavailable, "huggingface_classify", 0, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewAdapterError(timeoutKind(err), "huggingface_classify", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return domain.NewAdapterError(domain.FailureHTTPError, "huggingface_classify", resp.StatusCode,
			fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewAdapterError(domain.FailureParseError, "huggingface_classify", 0,
			fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func timeoutKind(err error) domain.AdapterFailureKind {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.FailureTimeout
	}
	return domain.FailureUnavailable
}

// wrapFailure keeps typed adapter errors as they are and folds everything
// else (including an open breaker) into an unavailable failure.
func wrapFailure(operation string, err error) error {
	var adapterErr *domain.AdapterError
	if errors.As(err, &adapterErr) {
		return err
	}
	if resilience.IsCircuitOpen(err) {
		return domain.NewAdapterError(domain.FailureUnavailable, operation, 0, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewAdapterError(domain.FailureTimeout, operation, 0, err)
	}
	return domain.NewAdapterError(domain.FailureUnavailable, operation, 0, err)
}
