// Package classifier implements the deterministic rule-based emotion
// classifier used when no external model is reachable.
package classifier

import (
	"math"
	"strings"
	"unicode"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
	"github.com/raazi29/mindmate-emotions-flow/internal/core/lexicon"
)

const (
	// minTextLength short-circuits sub-minimum input to neutral/0.5 before
	// any scoring runs. Distinct from the low-signal floor below.
	minTextLength = 3

	// lowSignalThreshold is the score floor under which the classifier
	// refuses to commit to an emotion and returns neutral/0.4.
	lowSignalThreshold = 0.5

	shortInputConfidence = 0.5
	lowSignalConfidence  = 0.4

	// maxConfidence caps rule-based confidence; 0.95 and above are reserved
	// for higher-trust sources.
	maxConfidence = 0.95

	baseKeywordScore     = 1.0
	sentimentBonus       = 1.0
	exclamationAmplifier = 1.2

	// negationWindow is how many tokens back a negation word may sit from
	// an emotion keyword and still scale it.
	negationWindow = 3
)

// RuleBased scores text against an immutable lexicon. Safe for concurrent use.
type RuleBased struct {
	lexicon *lexicon.Lexicon
}

func NewRuleBased(lx *lexicon.Lexicon) *RuleBased {
	return &RuleBased{lexicon: lx}
}

// Classify produces a ClassificationResult with ModelUsed = "rule-based".
// It is pure: identical input always yields an identical result.
func (c *RuleBased) Classify(text string) domain.ClassificationResult {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTextLength {
		return domain.NeutralResult(shortInputConfidence)
	}

	lowered := strings.ToLower(trimmed)
	tokens := tokenize(lowered)
	normalized := strings.Join(tokens, " ")

	vector := newScoreVector()
	c.scoreKeywords(tokens, normalized, vector)
	c.scoreCompounds(normalized, vector)

	if maxScore(vector) < baseKeywordScore {
		c.scoreSentiment(tokens, vector)
	}

	if strings.HasSuffix(lowered, "!") {
		if label, score := dominant(vector); score > 0 {
			vector[label] = score * exclamationAmplifier
		}
	}

	label, max := dominant(vector)
	if max < lowSignalThreshold {
		return domain.NeutralResult(lowSignalConfidence)
	}

	var sum float64
	for _, score := range vector {
		sum += score
	}
	confidence := maxConfidence
	if sum > 0 {
		confidence = math.Min(max/sum, maxConfidence)
	}
	confidence = math.Round(confidence*100) / 100

	return domain.ClassificationResult{
		Emotion:    label,
		Confidence: confidence,
		ModelUsed:  domain.ModelRuleBased,
		Details:    vector,
	}
}

// scoreKeywords adds the base score for every whole-word keyword occurrence,
// scaled down by an adjacent diminisher and by a preceding negation. Multiple
// matches accumulate additively.
func (c *RuleBased) scoreKeywords(tokens []string, normalized string, vector map[domain.EmotionLabel]float64) {
	for i, token := range tokens {
		label, ok := c.lexicon.LabelFor(token)
		if !ok {
			continue
		}

		score := baseKeywordScore
		for _, dim := range c.lexicon.Diminishers() {
			if strings.Contains(normalized, dim+" "+token) || strings.Contains(normalized, token+" "+dim) {
				score *= lexicon.DiminisherFactor
				break
			}
		}
		if c.negatedAt(tokens, i) {
			score *= lexicon.NegationFactor
		}
		vector[label] += score
	}
}

func (c *RuleBased) negatedAt(tokens []string, idx int) bool {
	start := idx - negationWindow
	if start < 0 {
		start = 0
	}
	for _, token := range tokens[start:idx] {
		if c.lexicon.IsNegation(token) {
			return true
		}
	}
	return false
}

func (c *RuleBased) scoreCompounds(normalized string, vector map[domain.EmotionLabel]float64) {
	for _, label := range domain.AllEmotions() {
		for _, pattern := range c.lexicon.Compounds(label) {
			if strings.Contains(normalized, pattern) {
				vector[label] += lexicon.CompoundBonus
			}
		}
	}
}

// scoreSentiment is the coarse fallback when no specific emotion keyword
// produced a full base score: positive words nudge joy, negative words nudge
// sadness, a tie leaves the vector unchanged.
func (c *RuleBased) scoreSentiment(tokens []string, vector map[domain.EmotionLabel]float64) {
	var positive, negative int
	for _, token := range tokens {
		if c.lexicon.IsPositive(token) {
			positive++
		}
		if c.lexicon.IsNegative(token) {
			negative++
		}
	}
	switch {
	case positive > negative:
		vector[domain.EmotionJoy] += sentimentBonus
	case negative > positive:
		vector[domain.EmotionSadness] += sentimentBonus
	}
}

func newScoreVector() map[domain.EmotionLabel]float64 {
	vector := make(map[domain.EmotionLabel]float64, len(domain.AllEmotions()))
	for _, label := range domain.AllEmotions() {
		vector[label] = 0
	}
	return vector
}

func maxScore(vector map[domain.EmotionLabel]float64) float64 {
	_, max := dominant(vector)
	return max
}

// dominant returns the highest-scoring label, breaking ties by the
// EmotionLabel declaration order.
func dominant(vector map[domain.EmotionLabel]float64) (domain.EmotionLabel, float64) {
	winner := domain.EmotionNeutral
	best := math.Inf(-1)
	for _, label := range domain.AllEmotions() {
		if score := vector[label]; score > best {
			winner = label
			best = score
		}
	}
	return winner, best
}

// tokenize splits lowered text into word tokens, keeping intra-word
// apostrophes and hyphens so "don't" and "so-so" survive as single tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}
