package research

import (
	"regexp"
	"strings"
)

var (
	categoryMarker = regexp.MustCompile(`\*\*\d+\.\s+`)
	// "* **Description:** text", also "- **Description**: text"
	fieldLine = regexp.MustCompile(`^[*\-]\s*\*\*(Description|Research Prompt|Key Concepts)(?::\*\*|\*\*:)\s*(.*)$`)
)

// ParseCategories splits a model response on "**N. " markers into categories.
// Text before the first marker is dropped. Lines that match no known field
// are ignored, so a category may come back with fields missing. A response
// without markers yields an empty map.
func ParseCategories(text string) CategoryMap {
	result := CategoryMap{}

	segments := categoryMarker.Split(text, -1)
	if len(segments) < 2 {
		return result
	}

	for _, segment := range segments[1:] {
		lines := strings.Split(strings.TrimSpace(segment), "\n")
		name := strings.TrimSpace(strings.Trim(strings.TrimSpace(lines[0]), "*"))
		if name == "" {
			continue
		}

		record := CategoryRecord{Name: name}
		for _, line := range lines[1:] {
			m := fieldLine.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			value := strings.TrimSpace(m[2])
			switch m[1] {
			case "Description":
				record.Description = value
			case "Research Prompt":
				record.ResearchPrompt = strings.TrimSpace(strings.Trim(value, "*"))
			case "Key Concepts":
				record.KeyConcepts = splitConcepts(value)
			}
		}

		result[name] = record
	}

	return result
}

// splitConcepts splits a comma-separated list. Only a sentence-ending period
// after the last concept is dropped, so ".NET" and "U.S. grid" survive.
func splitConcepts(value string) []string {
	value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "*"))
	value = strings.TrimSuffix(value, ".")

	var concepts []string
	for _, c := range strings.Split(value, ",") {
		c = strings.TrimSpace(strings.Trim(strings.TrimSpace(c), "*"))
		if c != "" {
			concepts = append(concepts, c)
		}
	}
	return concepts
}
