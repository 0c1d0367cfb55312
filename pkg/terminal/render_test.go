package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeboe/research-prompter/pkg/research"
)

func TestRenderer_PromptsAndItems(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, 0)
	require.NoError(t, err)

	result := &research.Result{Content: "Drones inspect panels.", Citations: []string{"https://example.com/a"}}

	r.Prompts([]string{"First prompt?", "Second prompt?"})
	r.Item(research.ResearchItem{
		Index:     1,
		Prompt:    "First prompt?",
		Result:    result,
		Formatted: research.FormatResult(result),
	})
	r.Item(research.ResearchItem{
		Index:     2,
		Prompt:    "Second prompt?",
		Formatted: research.FormatResult(nil),
		Err:       "Error querying Perplexity AI: timeout",
	})

	out := buf.String()
	assert.Contains(t, out, "Generated Research Prompts:")
	assert.Contains(t, out, "1. First prompt?")
	assert.Contains(t, out, "2. Second prompt?")
	assert.Contains(t, out, "Research Result 1")
	assert.Contains(t, out, "Drones inspect panels.")
	assert.Contains(t, out, "https://example.com/a")
	assert.Contains(t, out, "Research Result 2")
	assert.Contains(t, out, "Error querying Perplexity AI: timeout")
	assert.Contains(t, out, "No response received from Perplexity AI.")
}

func TestRenderer_Status(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, 60)
	require.NoError(t, err)

	r.Status("Generating research prompts...")
	assert.Contains(t, buf.String(), "Generating research prompts...")
}
