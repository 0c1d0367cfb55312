package server

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
)

// renderMarkdown converts formatted research text to HTML. Raw HTML in the
// input is not passed through.
func renderMarkdown(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
