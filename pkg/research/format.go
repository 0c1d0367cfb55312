package research

import (
	"fmt"
	"strings"
)

// NoResponseMessage is shown in place of a failed research query.
const NoResponseMessage = "No response received from Perplexity AI."

// BuildInstruction wraps a prompt in the structured research request.
// The focus is usually the research field.
func BuildInstruction(topic string, depth int, focus string) (string, error) {
	if depth < MinDepth || depth > MaxDepth {
		return "", fmt.Errorf("%w: got %d", ErrInvalidDepth, depth)
	}

	return fmt.Sprintf(`Conduct a comprehensive research on the topic: "%s".
Depth of research: %d/5
Focus areas: %s

Please provide:
1. A brief overview of the topic
2. Key findings or main points (bulleted list)
3. Important details or explanations for each main point
4. Any relevant statistics or data
5. Current trends or future outlook
6. Potential applications or implications
7. Challenges or limitations
8. Conclusion or summary

Be precise and concise in your explanations.`, topic, depth, focus), nil
}

// FormatResult renders a result as markdown: the answer, then one citation
// URL per line under "Sources:". A nil result renders NoResponseMessage.
func FormatResult(r *Result) string {
	if r == nil {
		return NoResponseMessage
	}

	var sb strings.Builder
	sb.WriteString("Research Results:\n\n")
	sb.WriteString(r.Content)
	sb.WriteString("\n\nSources:\n")
	for _, url := range r.Citations {
		sb.WriteString("- ")
		sb.WriteString(url)
		sb.WriteString("\n")
	}
	return sb.String()
}
