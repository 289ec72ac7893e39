// Package lexicon holds the static vocabulary the rule-based classifier scores
// against. Everything here is pure data and pure lookup: no I/O, no state.
package lexicon

import (
	"strings"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

// Scaling constants applied to keyword contributions.
const (
	// DiminisherFactor scales a keyword down when a softening phrase sits
	// next to it ("slightly happy").
	DiminisherFactor = 0.6
	// NegationFactor scales a keyword down sharply when a negation token
	// precedes it. Negation reduces confidence in the stated emotion, it
	// does not assert the opposite.
	NegationFactor = 0.3
	// CompoundBonus is added to a label when one of its two-word compound
	// patterns occurs verbatim in the input.
	CompoundBonus = 2.0
)

// Lexicon groups surface keywords under each emotion label together with the
// modifier tables. Construct it once with New and share it; it is immutable.
type Lexicon struct {
	keywords    map[domain.EmotionLabel][]string
	keywordSet  map[string]domain.EmotionLabel
	diminishers []string
	negations   map[string]struct{}
	compounds   map[domain.EmotionLabel][]string
	positive    map[string]struct{}
	negative    map[string]struct{}
}

// New returns the built-in English lexicon.
func New() *Lexicon {
	lx := &Lexicon{
		keywords: map[domain.EmotionLabel][]string{
			domain.EmotionJoy:      {"happy", "joy", "joyful", "excited", "glad", "delighted", "pleased", "cheerful", "elated", "thrilled"},
			domain.EmotionSadness:  {"sad", "unhappy", "depressed", "down", "miserable", "upset", "lonely", "disappointed", "hurt", "grief"},
			domain.EmotionAnger:    {"angry", "mad", "furious", "annoyed", "irritated", "frustrated", "outraged", "disgusted"},
			domain.EmotionFear:     {"afraid", "scared", "frightened", "worried", "anxious", "nervous", "terrified", "stressed", "panicked"},
			domain.EmotionSurprise: {"surprised", "amazed", "astonished", "shocked", "stunned", "startled", "wow"},
			domain.EmotionLove:     {"love", "adore", "cherish", "affection", "fond", "caring", "grateful", "devoted"},
			domain.EmotionNeutral:  {"okay", "fine", "alright", "neutral", "so-so", "moderate", "calm", "peaceful"},
		},
		diminishers: []string{"slightly", "somewhat", "a bit", "a little", "kind of", "sort of", "mildly", "barely"},
		negations: toSet([]string{
			"not", "no", "never", "don't", "dont", "doesn't", "doesnt", "didn't", "didnt",
			"can't", "cant", "won't", "wont", "isn't", "isnt", "wasn't", "wasnt",
			"aren't", "arent", "ain't", "aint", "hardly", "without",
		}),
		compounds: map[domain.EmotionLabel][]string{
			domain.EmotionJoy:      {"happy and excited", "love and joy", "happy and grateful", "excited and happy"},
			domain.EmotionSadness:  {"sad and lonely", "disappointed and hurt", "sad and angry", "upset and sad"},
			domain.EmotionAnger:    {"angry and frustrated", "mad and disappointed", "angry and upset", "furious and mad"},
			domain.EmotionFear:     {"scared and worried", "afraid and anxious", "nervous and scared", "terrified and afraid"},
			domain.EmotionSurprise: {"surprised and amazed", "shocked and surprised", "amazed and shocked"},
		},
		positive: toSet([]string{"good", "great", "awesome", "wonderful", "fantastic", "amazing", "excellent", "positive"}),
		negative: toSet([]string{"bad", "terrible", "awful", "horrible", "worst", "negative"}),
	}

	lx.keywordSet = make(map[string]domain.EmotionLabel)
	for label, words := range lx.keywords {
		for _, w := range words {
			lx.keywordSet[w] = label
		}
	}
	return lx
}

// LabelFor returns the emotion a keyword belongs to.
func (lx *Lexicon) LabelFor(word string) (domain.EmotionLabel, bool) {
	label, ok := lx.keywordSet[strings.ToLower(word)]
	return label, ok
}

// Keywords returns the surface forms registered under label.
func (lx *Lexicon) Keywords(label domain.EmotionLabel) []string {
	return lx.keywords[label]
}

// Diminishers returns the softening phrases, longest forms included.
func (lx *Lexicon) Diminishers() []string { return lx.diminishers }

// IsNegation reports whether token is a negation word.
func (lx *Lexicon) IsNegation(token string) bool {
	_, ok := lx.negations[strings.ToLower(token)]
	return ok
}

// Compounds returns the verbatim two-word patterns credited to label.
func (lx *Lexicon) Compounds(label domain.EmotionLabel) []string {
	return lx.compounds[label]
}

// IsPositive and IsNegative classify generic sentiment indicator words. They
// matter only when no specific emotion keyword matched.
func (lx *Lexicon) IsPositive(token string) bool {
	_, ok := lx.positive[strings.ToLower(token)]
	return ok
}

func (lx *Lexicon) IsNegative(token string) bool {
	_, ok := lx.negative[strings.ToLower(token)]
	return ok
}

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
