package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/classifier"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/lexicon"
)

type fakeLimiter struct {
	admit      bool
	retryAfter time.Duration
	calls      int
}

func (f *fakeLimiter) Admit(string) bool               { f.calls++; return f.admit }
func (f *fakeLimiter) RetryAfter(string) time.Duration { return f.retryAfter }

type fakeCache struct {
	store map[string]domain.ClassificationResult
	puts  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]domain.ClassificationResult)}
}

func (f *fakeCache) Get(key string) (domain.ClassificationResult, bool) {
	v, ok := f.store[key]
	return v, ok
}

func (f *fakeCache) Put(key string, value domain.ClassificationResult) {
	f.puts++
	f.store[key] = value
}

func (f *fakeCache) Clear() { f.store = make(map[string]domain.ClassificationResult) }

type fakeExternal struct {
	result domain.ClassificationResult
	err    error
	calls  int
}

func (f *fakeExternal) Classify(context.Context, string) (domain.ClassificationResult, error) {
	f.calls++
	return f.result, f.err
}

func newDetectUC(limiter *fakeLimiter, cache *fakeCache, external *fakeExternal) *DetectUseCase {
	rb := classifier.NewRuleBased(lexicon.New())
	if external == nil {
		return NewDetectUseCase(limiter, cache, nil, rb, nil, nil, 50)
	}
	return NewDetectUseCase(limiter, cache, external, rb, nil, nil, 50)
}

func TestDetectRejectsEmptyText(t *testing.T) {
	uc := newDetectUC(&fakeLimiter{admit: true}, newFakeCache(), nil)
	_, err := uc.Detect(context.Background(), "c", "   ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestDetectRateLimited(t *testing.T) {
	limiter := &fakeLimiter{admit: false, retryAfter: 12 * time.Second}
	uc := newDetectUC(limiter, newFakeCache(), nil)

	_, err := uc.Detect(context.Background(), "c", "I am happy")
	if !domain.IsKind(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}
	if uc.RetryAfter("c") != 12*time.Second {
		t.Fatalf("expected retry-after passthrough")
	}
}

func TestDetectUsesExternalAndCaches(t *testing.T) {
	external := &fakeExternal{result: domain.ClassificationResult{
		Emotion:    domain.EmotionLove,
		Confidence: 0.88,
		ModelUsed:  "distilroberta",
	}}
	cache := newFakeCache()
	uc := newDetectUC(&fakeLimiter{admit: true}, cache, external)

	result, err := uc.Detect(context.Background(), "c", "I adore this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Emotion != domain.EmotionLove || result.ModelUsed != "distilroberta" {
		t.Fatalf("expected external result, got %+v", result)
	}
	if cache.puts != 1 {
		t.Fatalf("expected result to be cached, puts=%d", cache.puts)
	}

	// Second identical request must come from the cache.
	_, err = uc.Detect(context.Background(), "c", "I adore this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if external.calls != 1 {
		t.Fatalf("expected single external call, got %d", external.calls)
	}
}

func TestDetectFallsBackWhenExternalFails(t *testing.T) {
	external := &fakeExternal{err: domain.NewAdapterError(domain.FailureHTTPError, "classify", 503, fmt.Errorf("upstream down"))}
	cache := newFakeCache()
	uc := newDetectUC(&fakeLimiter{admit: true}, cache, external)

	result, err := uc.Detect(context.Background(), "c", "I am happy today")
	if err != nil {
		t.Fatalf("adapter failure must not surface, got %v", err)
	}
	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected rule-based joy, got %q", result.Emotion)
	}
	if result.ModelUsed != domain.ModelRuleBased {
		t.Fatalf("expected rule-based model tag, got %q", result.ModelUsed)
	}
	if cache.puts != 1 {
		t.Fatalf("fallback results are cached too, puts=%d", cache.puts)
	}
}

func TestDetectAlwaysAnswersWithFailingExternal(t *testing.T) {
	external := &fakeExternal{err: fmt.Errorf("permanently broken")}
	uc := newDetectUC(&fakeLimiter{admit: true}, newFakeCache(), external)

	for i := 0; i < 20; i++ {
		result, err := uc.Detect(context.Background(), "c", fmt.Sprintf("I am happy number %d", i))
		if err != nil {
			t.Fatalf("request %d: expected degraded answer, got error %v", i, err)
		}
		if result.Emotion == "" {
			t.Fatalf("request %d: empty emotion", i)
		}
	}
}

func TestDetectShortTextSkipsPipeline(t *testing.T) {
	external := &fakeExternal{result: domain.NeutralResult(0.9)}
	cache := newFakeCache()
	uc := newDetectUC(&fakeLimiter{admit: true}, cache, external)

	result, err := uc.Detect(context.Background(), "c", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Emotion != domain.EmotionNeutral || result.Confidence != 0.5 {
		t.Fatalf("expected neutral/0.5 for short input, got %+v", result)
	}
	if external.calls != 0 {
		t.Fatalf("short input must not reach the external adapter")
	}
	if cache.puts != 0 {
		t.Fatalf("short input must not occupy cache slots")
	}
}

func TestDetectBatchValidation(t *testing.T) {
	uc := newDetectUC(&fakeLimiter{admit: true}, newFakeCache(), nil)

	if _, err := uc.DetectBatch(context.Background(), "c", nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty batch, got %v", err)
	}

	oversized := make([]string, 51)
	for i := range oversized {
		oversized[i] = "I am happy"
	}
	if _, err := uc.DetectBatch(context.Background(), "c", oversized); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for oversized batch, got %v", err)
	}
}

func TestDetectBatchSingleAdmission(t *testing.T) {
	limiter := &fakeLimiter{admit: true}
	uc := newDetectUC(limiter, newFakeCache(), nil)

	batch, err := uc.DetectBatch(context.Background(), "c", []string{"I am happy", "I am sad", "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limiter.calls != 1 {
		t.Fatalf("batch must consume one admission, got %d", limiter.calls)
	}
	if batch.Count != 3 || len(batch.Results) != 3 {
		t.Fatalf("expected 3 results, got %+v", batch)
	}
	if batch.Results[0].Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy first, got %q", batch.Results[0].Emotion)
	}
	if batch.Results[1].Emotion != domain.EmotionSadness {
		t.Fatalf("expected sadness second, got %q", batch.Results[1].Emotion)
	}
	if batch.Results[2].Emotion != domain.EmotionNeutral {
		t.Fatalf("expected neutral for short third item, got %q", batch.Results[2].Emotion)
	}
}

func TestDetectBatchItemsDegradeIndividually(t *testing.T) {
	external := &fakeExternal{err: fmt.Errorf("down")}
	uc := newDetectUC(&fakeLimiter{admit: true}, newFakeCache(), external)

	batch, err := uc.DetectBatch(context.Background(), "c", []string{"I am happy", "no signal here"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, result := range batch.Results {
		if result.ModelUsed != domain.ModelRuleBased {
			t.Fatalf("item %d: expected rule-based degradation, got %q", i, result.ModelUsed)
		}
	}
}
