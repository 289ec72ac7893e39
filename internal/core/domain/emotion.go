package domain

// EmotionLabel is the closed set of emotions the service reports. External
// taxonomies are reduced to this set at the adapter boundary; nothing outside
// it ever crosses into the core.
type EmotionLabel string

// Declaration order doubles as the tie-break order for the rule-based
// classifier: on equal scores the first listed label wins. Changing the order
// is a behavior change, not a cleanup.
const (
	EmotionJoy      EmotionLabel = "joy"
	EmotionSadness  EmotionLabel = "sadness"
	EmotionAnger    EmotionLabel = "anger"
	EmotionFear     EmotionLabel = "fear"
	EmotionSurprise EmotionLabel = "surprise"
	EmotionLove     EmotionLabel = "love"
	EmotionNeutral  EmotionLabel = "neutral"
)

// AllEmotions returns the labels in tie-break order.
func AllEmotions() []EmotionLabel {
	return []EmotionLabel{
		EmotionJoy,
		EmotionSadness,
		EmotionAnger,
		EmotionFear,
		EmotionSurprise,
		EmotionLove,
		EmotionNeutral,
	}
}

// IsValidEmotion reports whether s names a member of the closed set.
func IsValidEmotion(s string) bool {
	switch EmotionLabel(s) {
	case EmotionJoy, EmotionSadness, EmotionAnger, EmotionFear, EmotionSurprise, EmotionLove, EmotionNeutral:
		return true
	}
	return false
}

// Model tags reported in ClassificationResult.ModelUsed.
const (
	ModelRuleBased = "rule-based"
)

// ClassificationResult is the uniform output of every classification path.
// It is constructed once per call and never mutated afterwards; cached copies
// are returned as stored.
type ClassificationResult struct {
	Emotion    EmotionLabel             `json:"emotion"`
	Confidence float64                  `json:"confidence"`
	ModelUsed  string                   `json:"model_used"`
	Details    map[EmotionLabel]float64 `json:"details,omitempty"`
}

// NeutralResult is the safest available answer: used for sub-minimum input
// and as the last-resort response when even rule-based scoring fails.
func NeutralResult(confidence float64) ClassificationResult {
	return ClassificationResult{
		Emotion:    EmotionNeutral,
		Confidence: confidence,
		ModelUsed:  ModelRuleBased,
	}
}
