package research

import (
	"context"
	"errors"
	"maps"
	"slices"
)

var (
	// ErrNoCategories means the model response held no parsable categories
	// while prompts were requested.
	ErrNoCategories = errors.New("no research categories found in model response")

	// ErrNoPrompts means categories were parsed but none had a research
	// prompt or key concepts to draw from.
	ErrNoPrompts = errors.New("no research prompts could be drawn from the categories")

	// ErrInvalidDepth means a research depth outside 1-5.
	ErrInvalidDepth = errors.New("research depth must be between 1 and 5")
)

const (
	MinDepth = 1
	MaxDepth = 5

	MinPromptCount = 1
	MaxPromptCount = 10
)

// CategoryRecord is one category parsed from the model response.
// An empty string or nil slice means the field was not found.
type CategoryRecord struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	ResearchPrompt string   `json:"research_prompt,omitempty"`
	KeyConcepts    []string `json:"key_concepts,omitempty"`
}

// CategoryMap maps category name to its record.
type CategoryMap map[string]CategoryRecord

// Names returns the category names in sorted order.
func (m CategoryMap) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// Result is a research answer and its citation URLs.
// A nil *Result is the "no result" sentinel.
type Result struct {
	Content   string   `json:"content"`
	Citations []string `json:"citations"`
}

// Researcher sends one prompt to the research API.
type Researcher interface {
	Query(ctx context.Context, prompt string) (*Result, error)
}
