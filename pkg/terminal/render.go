package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mikeboe/research-prompter/pkg/research"
)

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorDim    = lipgloss.Color("#928374")
	colorRed    = lipgloss.Color("#fb4934")

	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleError  = lipgloss.NewStyle().Foreground(colorRed)
)

// Renderer writes prompts and research results to a terminal.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

func NewRenderer(out io.Writer, width int) (*Renderer, error) {
	if width <= 0 {
		width = 80
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{out: out, markdown: md}, nil
}

// Status prints a dimmed progress line.
func (r *Renderer) Status(msg string) {
	fmt.Fprintln(r.out, styleDim.Render(msg))
}

// Prompts prints the numbered list of sampled prompts.
func (r *Renderer) Prompts(prompts []string) {
	fmt.Fprintln(r.out, styleHeader.Render("Generated Research Prompts:"))
	for i, p := range prompts {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, p)
	}
	fmt.Fprintln(r.out)
}

// Item prints one research result under its own heading.
func (r *Renderer) Item(item research.ResearchItem) {
	fmt.Fprintln(r.out, styleHeader.Render(fmt.Sprintf("Research Result %d", item.Index)))
	if item.Err != "" {
		fmt.Fprintln(r.out, styleError.Render(item.Err))
	}
	fmt.Fprintln(r.out, r.render(item.Formatted))
}

func (r *Renderer) render(md string) string {
	out, err := r.markdown.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
