package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

func joyResult(confidence float64) domain.ClassificationResult {
	return domain.ClassificationResult{
		Emotion:    domain.EmotionJoy,
		Confidence: confidence,
		ModelUsed:  domain.ModelRuleBased,
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	c := NewResultCache(10, time.Minute)
	c.Put("k1", joyResult(0.9))

	got, ok := c.Get("k1")
	if !ok {
		t.Fatalf("expected hit for k1")
	}
	if got.Emotion != domain.EmotionJoy || got.Confidence != 0.9 {
		t.Fatalf("unexpected cached value: %+v", got)
	}
	if _, ok := c.Get("absent"); ok {
		t.Fatalf("expected miss for absent key")
	}
}

func TestExpiredEntryIsAbsent(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewResultCache(10, time.Minute).WithClock(func() time.Time { return now })

	c.Put("k1", joyResult(0.9))

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("k1"); !ok {
		t.Fatalf("entry expired too early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k1"); ok {
		t.Fatalf("expected expired entry to read as absent")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted on read, len=%d", c.Len())
	}
}

func TestCapacityEvictsOldestInserted(t *testing.T) {
	c := NewResultCache(1000, time.Hour)
	for i := 0; i < 1001; i++ {
		c.Put(fmt.Sprintf("k%d", i), joyResult(0.5))
	}

	if c.Len() != 1000 {
		t.Fatalf("expected capacity 1000 after overflow, got %d", c.Len())
	}
	if _, ok := c.Get("k0"); ok {
		t.Fatalf("expected oldest entry k0 to be evicted")
	}
	if _, ok := c.Get("k1000"); !ok {
		t.Fatalf("expected newest entry to survive")
	}
}

func TestOverwriteRefreshesAge(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewResultCache(2, time.Minute).WithClock(func() time.Time { return now })

	c.Put("a", joyResult(0.5))
	now = now.Add(10 * time.Second)
	c.Put("b", joyResult(0.5))
	now = now.Add(10 * time.Second)
	c.Put("a", joyResult(0.7))

	// "a" was re-inserted last, so the overflow victim must be "b".
	c.Put("c", joyResult(0.5))
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted after a was refreshed")
	}
	got, ok := c.Get("a")
	if !ok || got.Confidence != 0.7 {
		t.Fatalf("expected refreshed value for a, got %+v ok=%v", got, ok)
	}
}

func TestClearEmptiesEverything(t *testing.T) {
	c := NewResultCache(10, time.Minute)
	c.Put("k1", joyResult(0.9))
	c.Put("k2", joyResult(0.8))

	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after clear, len=%d", c.Len())
	}
	if _, ok := c.Get("k1"); ok {
		t.Fatalf("expected miss after clear")
	}
}
