package research

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/prompts"

	"github.com/mikeboe/research-prompter/pkg/clients"
)

const categoriesTemplate = `
You are an expert research consultant specializing in {{.research_field}}. Your task is to generate research categories and prompts based on a given research topic.

Given research topic: {{.research_topic}}

Guidelines:
1. Create 3-5 distinct research categories related to the topic.
2. For each category, provide:
   a) A brief description of the category
   b) A specific research prompt
   c) Key concepts or terms relevant to this category

Format your response based on these instructions:
- Use bullet points for lists of categories or key concepts.
- Use numbered lists for the main categories.
- Use bold for category titles and research prompts.
- Structure your response with clear sections for better readability.
- Write each category as "**N. Category Name**" followed by the bullets
  "* **Description:** ...", "* **Research Prompt:** ..." and "* **Key Concepts:** a, b, c".

Constraints:
- Ensure each category is distinct and covers a different aspect of the topic.
- Research prompts should be specific, answerable, and suitable for academic inquiry.
- Avoid overlapping content between categories.

Based on the above guidelines, provide your structured research categories and prompts below:
`

var categoriesPrompt = prompts.NewPromptTemplate(categoriesTemplate, []string{"research_field", "research_topic"})

// Generator asks the generative model for research categories.
type Generator struct {
	LLM clients.Completer
}

// CategoriesPrompt renders the instruction sent to the model.
func CategoriesPrompt(field, topic string) (string, error) {
	return categoriesPrompt.Format(map[string]any{
		"research_field": field,
		"research_topic": topic,
	})
}

// GenerateCategories returns the raw model text. Model failures are returned
// as-is; callers treat them as fatal to the current cycle.
func (g *Generator) GenerateCategories(ctx context.Context, field, topic string) (string, error) {
	prompt, err := CategoriesPrompt(field, topic)
	if err != nil {
		return "", fmt.Errorf("failed to render categories prompt: %w", err)
	}
	return g.LLM.Complete(ctx, prompt)
}
