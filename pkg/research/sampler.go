package research

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// maxPickAttempts bounds how often a slot is redrawn when the chosen
// category has neither a research prompt nor key concepts.
const maxPickAttempts = 5

// Sampler draws research prompts from parsed categories.
// A nil Rand uses the global source.
type Sampler struct {
	Rand  *rand.Rand
	Field string
}

// Sample returns up to n prompts. Each prompt is either a category's research
// prompt or one synthesized from a random key concept of that category.
// An empty map or n <= 0 yields no prompts. A slot whose draws keep landing
// on unusable categories is omitted.
func (s *Sampler) Sample(categories CategoryMap, n int) []string {
	prompts := []string{}
	if n <= 0 || len(categories) == 0 {
		return prompts
	}

	names := categories.Names()
	for range n {
		if p, ok := s.pick(categories, names); ok {
			prompts = append(prompts, p)
		}
	}
	return prompts
}

func (s *Sampler) pick(categories CategoryMap, names []string) (string, bool) {
	for range maxPickAttempts {
		name := names[s.intN(len(names))]
		record := categories[name]

		if s.intN(2) == 0 && record.ResearchPrompt != "" {
			return record.ResearchPrompt, true
		}
		if len(record.KeyConcepts) > 0 {
			concept := record.KeyConcepts[s.intN(len(record.KeyConcepts))]
			return SynthesizePrompt(concept, name, s.Field), true
		}
		if record.ResearchPrompt != "" {
			return record.ResearchPrompt, true
		}
	}
	return "", false
}

func (s *Sampler) intN(n int) int {
	if s.Rand == nil {
		return rand.IntN(n)
	}
	return s.Rand.IntN(n)
}

// SynthesizePrompt builds a question applying a key concept to a category,
// aimed at the research field when one is given.
func SynthesizePrompt(concept, category, field string) string {
	concept = strings.ToLower(strings.TrimSpace(concept))
	category = strings.ToLower(strings.TrimSpace(category))
	field = strings.ToLower(strings.TrimSpace(field))

	if field == "" {
		return fmt.Sprintf("How can %s be applied in %s?", concept, category)
	}
	return fmt.Sprintf("How can %s be applied in %s to improve %s?", concept, category, field)
}
