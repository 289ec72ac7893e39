package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/classifier"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/ports"
)

const DefaultBatchLimit = 50

// DetectUseCase routes detection requests through the rate limiter, the
// result cache, the external classifier and finally the rule-based engine.
// Adapter failures never escape: the caller sees either a result, an
// ErrInvalidInput or an ErrRateLimited.
type DetectUseCase struct {
	limiter    ports.RateLimiter
	cache      ports.ResultCache
	external   ports.EmotionClassifier
	ruleBased  *classifier.RuleBased
	observer   ports.DetectionObserver
	log        *slog.Logger
	batchLimit int
}

func NewDetectUseCase(
	limiter ports.RateLimiter,
	cache ports.ResultCache,
	external ports.EmotionClassifier,
	ruleBased *classifier.RuleBased,
	observer ports.DetectionObserver,
	log *slog.Logger,
	batchLimit int,
) *DetectUseCase {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	if log == nil {
		log = slog.Default()
	}
	if batchLimit <= 0 {
		batchLimit = DefaultBatchLimit
	}
	return &DetectUseCase{
		limiter:    limiter,
		cache:      cache,
		external:   external,
		ruleBased:  ruleBased,
		observer:   observer,
		log:        log,
		batchLimit: batchLimit,
	}
}

// Detect classifies a single text for the given client identity.
func (uc *DetectUseCase) Detect(ctx context.Context, identity, text string) (domain.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrInvalidInput, "detect", fmt.Errorf("text is required"))
	}
	if !uc.limiter.Admit(identity) {
		uc.observer.RateLimited()
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrRateLimited, "detect", fmt.Errorf("client %s exceeded the request window", identity))
	}
	return uc.detectOne(ctx, text), nil
}

// DetectBatch classifies up to the batch limit of texts under a single
// rate-limiter admission. Individual failures degrade to the rule-based
// engine; they never fail the batch.
func (uc *DetectUseCase) DetectBatch(ctx context.Context, identity string, texts []string) (domain.BatchDetection, error) {
	if len(texts) == 0 {
		return domain.BatchDetection{}, domain.WrapError(domain.ErrInvalidInput, "detect_batch", fmt.Errorf("texts is required"))
	}
	if len(texts) > uc.batchLimit {
		return domain.BatchDetection{}, domain.WrapError(domain.ErrInvalidInput, "detect_batch", fmt.Errorf("batch of %d exceeds limit %d", len(texts), uc.batchLimit))
	}
	if !uc.limiter.Admit(identity) {
		uc.observer.RateLimited()
		return domain.BatchDetection{}, domain.WrapError(domain.ErrRateLimited, "detect_batch", fmt.Errorf("client %s exceeded the request window", identity))
	}

	started := time.Now()
	results := make([]domain.ClassificationResult, 0, len(texts))
	for _, text := range texts {
		results = append(results, uc.detectOne(ctx, text))
	}
	return domain.BatchDetection{
		Results:   results,
		TotalTime: time.Since(started).Seconds(),
		Count:     len(results),
	}, nil
}

// RetryAfter reports how long the identity must wait before the limiter
// admits it again.
func (uc *DetectUseCase) RetryAfter(identity string) time.Duration {
	return uc.limiter.RetryAfter(identity)
}

func (uc *DetectUseCase) detectOne(ctx context.Context, text string) domain.ClassificationResult {
	started := time.Now()

	// Too short to classify; not worth a cache slot or a network call.
	if len(strings.TrimSpace(text)) < 3 {
		result := domain.NeutralResult(0.5)
		uc.observer.Detection(result.ModelUsed, time.Since(started))
		return result
	}

	key := fingerprint(text, uc.mode())
	if cached, ok := uc.cache.Get(key); ok {
		uc.observer.CacheHit()
		uc.observer.Detection(cached.ModelUsed, time.Since(started))
		return cached
	}
	uc.observer.CacheMiss()

	if uc.external != nil {
		result, err := uc.external.Classify(ctx, text)
		if err == nil {
			uc.cache.Put(key, result)
			uc.observer.Detection(result.ModelUsed, time.Since(started))
			return result
		}
		uc.observer.AdapterFailure(domain.AdapterFailureOf(err))
		uc.log.Warn("external classifier failed, falling back to rule-based",
			slog.String("error", err.Error()),
			slog.Int("text_length", len(text)),
		)
	}

	result := uc.classifySafely(text)
	uc.observer.Fallback()
	// Fallback results share the cache so a flapping upstream does not turn
	// every repeat request into a full rescore.
	uc.cache.Put(key, result)
	uc.observer.Detection(result.ModelUsed, time.Since(started))
	return result
}

// classifySafely shields the dispatch path from panics in the scoring code.
func (uc *DetectUseCase) classifySafely(text string) (result domain.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error("rule-based classifier panicked", slog.Any("panic", r))
			result = domain.NeutralResult(0.4)
		}
	}()
	return uc.ruleBased.Classify(text)
}

// mode tags the cache key so results from different classification paths
// never collide.
func (uc *DetectUseCase) mode() string {
	if uc.external != nil {
		return "external"
	}
	return domain.ModelRuleBased
}

func fingerprint(text, mode string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := sha256.Sum256([]byte(normalized + "|" + mode))
	return hex.EncodeToString(sum[:])
}
