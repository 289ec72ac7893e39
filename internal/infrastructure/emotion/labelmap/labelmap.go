// Package labelmap reduces labels from external model taxonomies onto the
// closed EmotionLabel set. The mapping lives at the adapter boundary so that
// an unmapped string never enters the core data model.
package labelmap

import (
	"strings"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

var mapping = buildMapping()

// Reduce maps any external label onto the closed set. Unrecognized labels map
// to neutral, never pass through verbatim.
func Reduce(label string) domain.EmotionLabel {
	if mapped, ok := mapping[strings.ToLower(strings.TrimSpace(label))]; ok {
		return mapped
	}
	return domain.EmotionNeutral
}

func buildMapping() map[string]domain.EmotionLabel {
	m := map[string]domain.EmotionLabel{}
	add := func(label domain.EmotionLabel, names ...string) {
		for _, n := range names {
			m[n] = label
		}
	}

	// go_emotions style fine-grained labels.
	add(domain.EmotionJoy, "joy", "happy", "happiness", "excitement", "delight", "pleasure", "cheerful", "elated", "amusement", "optimism", "relief", "pride")
	add(domain.EmotionSadness, "sadness", "sad", "unhappy", "depressed", "grief", "sorrow", "disappointment", "remorse", "embarrassment")
	add(domain.EmotionAnger, "anger", "angry", "furious", "mad", "annoyance", "irritated", "frustrated", "disgust", "disapproval")
	add(domain.EmotionFear, "fear", "afraid", "scared", "frightened", "anxious", "worried", "nervous", "terrified", "nervousness")
	add(domain.EmotionSurprise, "surprise", "surprised", "amazed", "astonished", "shocked", "realization", "confusion", "curiosity")
	add(domain.EmotionLove, "love", "affection", "caring", "admiration", "gratitude", "desire")
	add(domain.EmotionNeutral, "neutral", "calm", "peaceful")

	// The distilroberta checkpoint sometimes reports bare label indices.
	add(domain.EmotionSadness, "label_0")
	add(domain.EmotionJoy, "label_1")
	add(domain.EmotionLove, "label_2")
	add(domain.EmotionAnger, "label_3")
	add(domain.EmotionFear, "label_4")
	add(domain.EmotionSurprise, "label_5")

	// Coarse sentiment heads used by backup models.
	add(domain.EmotionJoy, "positive")
	add(domain.EmotionSadness, "negative")
	return m
}
