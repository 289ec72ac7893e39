package classifier

import (
	"testing"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/lexicon"
)

func newClassifier() *RuleBased {
	return NewRuleBased(lexicon.New())
}

func TestShortInputIsNeutral(t *testing.T) {
	c := newClassifier()
	for _, text := range []string{"", " ", "ok", "  a  "} {
		result := c.Classify(text)
		if result.Emotion != domain.EmotionNeutral {
			t.Fatalf("text %q: expected neutral, got %q", text, result.Emotion)
		}
		if result.Confidence != 0.5 {
			t.Fatalf("text %q: expected confidence 0.5, got %v", text, result.Confidence)
		}
	}
}

func TestPlainKeywordMatch(t *testing.T) {
	c := newClassifier()
	result := c.Classify("I am happy")
	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy, got %q", result.Emotion)
	}
	if result.Confidence != 0.95 {
		t.Fatalf("expected confidence 0.95, got %v", result.Confidence)
	}
	if result.ModelUsed != domain.ModelRuleBased {
		t.Fatalf("expected rule-based model tag, got %q", result.ModelUsed)
	}
}

func TestNegationDropsBelowSignalFloor(t *testing.T) {
	c := newClassifier()
	result := c.Classify("I am not happy")
	if result.Emotion != domain.EmotionNeutral {
		t.Fatalf("expected neutral for negated keyword, got %q", result.Emotion)
	}
	if result.Confidence != 0.4 {
		t.Fatalf("expected low-signal confidence 0.4, got %v", result.Confidence)
	}
}

func TestNegationWindowIsBounded(t *testing.T) {
	c := newClassifier()
	// The negation sits four tokens before the keyword, outside the window.
	result := c.Classify("not that it matters i'm happy")
	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy when negation is out of range, got %q", result.Emotion)
	}
}

func TestDiminisherSoftensButKeepsEmotion(t *testing.T) {
	c := newClassifier()
	result := c.Classify("I am slightly happy")
	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy, got %q", result.Emotion)
	}
	if result.Details[domain.EmotionJoy] != 0.6 {
		t.Fatalf("expected diminished score 0.6, got %v", result.Details[domain.EmotionJoy])
	}
}

func TestCompoundPatternAndExclamation(t *testing.T) {
	c := newClassifier()
	result := c.Classify("I'm feeling really happy and excited today!")
	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy, got %q", result.Emotion)
	}
	if result.Confidence != 0.95 {
		t.Fatalf("expected capped confidence 0.95, got %v", result.Confidence)
	}
	// Two keywords, compound bonus, exclamation amplifier: (1+1+2)*1.2.
	if got := result.Details[domain.EmotionJoy]; got != 4.8 {
		t.Fatalf("expected joy score 4.8, got %v", got)
	}
}

func TestSentimentFallbackPositive(t *testing.T) {
	c := newClassifier()
	result := c.Classify("that was a great day overall")
	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy from positive sentiment, got %q", result.Emotion)
	}
}

func TestSentimentFallbackNegative(t *testing.T) {
	c := newClassifier()
	result := c.Classify("this week has been terrible")
	if result.Emotion != domain.EmotionSadness {
		t.Fatalf("expected sadness from negative sentiment, got %q", result.Emotion)
	}
}

func TestNoSignalIsNeutral(t *testing.T) {
	c := newClassifier()
	result := c.Classify("the meeting is at noon")
	if result.Emotion != domain.EmotionNeutral {
		t.Fatalf("expected neutral for unscored text, got %q", result.Emotion)
	}
	if result.Confidence != 0.4 {
		t.Fatalf("expected confidence 0.4, got %v", result.Confidence)
	}
}

func TestTieBreakFollowsDeclarationOrder(t *testing.T) {
	c := newClassifier()
	// joy and sadness both score 1.0; joy is declared first.
	result := c.Classify("I feel sad and happy at once")
	if result.Emotion != domain.EmotionJoy {
		t.Fatalf("expected joy on tie, got %q", result.Emotion)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("expected split confidence 0.5, got %v", result.Confidence)
	}
}

func TestConfidenceNeverExceedsCap(t *testing.T) {
	c := newClassifier()
	texts := []string{
		"happy happy happy joy joy excited delighted thrilled!",
		"I am furious and outraged and angry and mad",
		"scared and worried, terrified, anxious!",
	}
	for _, text := range texts {
		result := c.Classify(text)
		if result.Confidence > 0.95 {
			t.Fatalf("text %q: confidence %v exceeds cap", text, result.Confidence)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newClassifier()
	text := "I love this but I'm a bit nervous!"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		again := c.Classify(text)
		if again.Emotion != first.Emotion || again.Confidence != first.Confidence {
			t.Fatalf("classification drifted: %+v vs %+v", first, again)
		}
	}
}

func TestDetailsCoverEveryLabel(t *testing.T) {
	c := newClassifier()
	result := c.Classify("I am happy today")
	if len(result.Details) != len(domain.AllEmotions()) {
		t.Fatalf("expected full score vector, got %d entries", len(result.Details))
	}
	for _, label := range domain.AllEmotions() {
		if _, ok := result.Details[label]; !ok {
			t.Fatalf("missing label %q in details", label)
		}
	}
}
