// Package huggingface calls the HuggingFace inference API for emotion
// classification. It is the primary external classifier; every failure mode
// surfaces as a domain.AdapterError so the dispatch layer can fall back.
package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/emotion/labelmap"
	"github.com/raazi29/mindmate-emotions-flow/internal/infrastructure/resilience"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model, apiKey string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		executor:   executor,
	}
}

type scoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify posts text to the inference endpoint and reduces the top-scoring
// label onto the closed emotion set.
func (c *Client) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if c.apiKey == "" {
		return domain.ClassificationResult{}, domain.NewAdapterError(
			domain.FailureUnavailable, "huggingface_classify", 0,
			fmt.Errorf("api key not configured"),
		)
	}

	payload := map[string]any{
		"inputs":  text,
		"options": map[string]any{"wait_for_model": true},
	}

	var raw [][]scoredLabel
	err := c.executor.Execute(ctx, "huggingface_classify", func(ctx context.Context) error {
		return c.postJSON(ctx, "/"+c.model, payload, &raw)
	}, resilience.ClassifyAdapterError)
	if err != nil {
		return domain.ClassificationResult{}, wrapFailure("huggingface_classify", err)
	}

	if len(raw) == 0 || len(raw[0]) == 0 {
		return domain.ClassificationResult{}, domain.NewAdapterError(
			domain.FailureParseError, "huggingface_classify", 0,
			fmt.Errorf("empty classification payload"),
		)
	}

	scores := raw[0]
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	top := scores[0]

	details := make(map[domain.EmotionLabel]float64, len(scores))
	for _, s := range scores {
		details[labelmap.Reduce(s.Label)] += s.Score
	}

	return domain.ClassificationResult{
		Emotion:    labelmap.Reduce(top.Label),
		Confidence: top.Score,
		ModelUsed:  c.model,
		Details:    details,
	}, nil
}
