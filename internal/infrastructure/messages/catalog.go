// Package messages serves the canned joke/encouragement/quote tables and the
// emotion-keyed chat fallback responses. The catalog ships embedded in the
// binary; there is no runtime dependency for it to fail on.
package messages

import (
	_ "embed"
	"fmt"
	"math/rand"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/raazi29/mindmate-emotions-flow/internal/core/domain"
)

//go:embed messages.yaml
var catalogYAML []byte

// MessageTypes are the valid values for the message endpoint's type segment.
var MessageTypes = []string{"jokes", "encouragement", "quotes"}

type catalogFile struct {
	Jokes         map[string][]string `yaml:"jokes"`
	Encouragement map[string][]string `yaml:"encouragement"`
	Quotes        map[string][]string `yaml:"quotes"`
	ChatFallback  map[string]string   `yaml:"chat_fallback"`
}

type Catalog struct {
	tables   map[string]map[domain.EmotionLabel][]string
	fallback map[domain.EmotionLabel]string

	mu  sync.Mutex
	rng *rand.Rand
}

// Load parses the embedded catalog and verifies every emotion has entries
// for every message type.
func Load() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}

	c := &Catalog{
		tables: map[string]map[domain.EmotionLabel][]string{
			"jokes":         toLabelTable(file.Jokes),
			"encouragement": toLabelTable(file.Encouragement),
			"quotes":        toLabelTable(file.Quotes),
		},
		fallback: make(map[domain.EmotionLabel]string, len(file.ChatFallback)),
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
	for emotion, text := range file.ChatFallback {
		c.fallback[domain.EmotionLabel(emotion)] = text
	}

	for _, msgType := range MessageTypes {
		for _, label := range domain.AllEmotions() {
			if len(c.tables[msgType][label]) == 0 {
				return nil, fmt.Errorf("message catalog: no %s entries for %s", msgType, label)
			}
		}
	}
	return c, nil
}

// Random picks one message for the given type and emotion.
func (c *Catalog) Random(msgType string, emotion domain.EmotionLabel) (string, error) {
	table, ok := c.tables[msgType]
	if !ok {
		return "", domain.WrapError(domain.ErrInvalidInput, "message_lookup",
			fmt.Errorf("invalid message type: %s", msgType))
	}
	entries := table[emotion]
	if len(entries) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "message_lookup",
			fmt.Errorf("invalid emotion: %s", emotion))
	}

	c.mu.Lock()
	idx := c.rng.Intn(len(entries))
	c.mu.Unlock()
	return entries[idx], nil
}

// ChatFallback returns the canned assistant reply for emotion, defaulting to
// the neutral response for unknown or empty emotions.
func (c *Catalog) ChatFallback(emotion domain.EmotionLabel) string {
	if text, ok := c.fallback[emotion]; ok {
		return text
	}
	return c.fallback[domain.EmotionNeutral]
}

func toLabelTable(in map[string][]string) map[domain.EmotionLabel][]string {
	out := make(map[domain.EmotionLabel][]string, len(in))
	for emotion, entries := range in {
		out[domain.EmotionLabel(emotion)] = entries
	}
	return out
}
