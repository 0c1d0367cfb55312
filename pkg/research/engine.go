package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/mikeboe/research-prompter/pkg/clients"
)

// RunRequest holds the inputs of a "generate and research" cycle.
type RunRequest struct {
	Field string `json:"field"`
	Topic string `json:"topic"`
	Count int    `json:"count"`
	Depth int    `json:"depth"`
	// Focus defaults to Field.
	Focus string `json:"focus,omitempty"`
}

// Validate checks the bounds the user-facing surfaces accept.
func (r RunRequest) Validate() error {
	if strings.TrimSpace(r.Field) == "" {
		return errors.New("research field is required")
	}
	if strings.TrimSpace(r.Topic) == "" {
		return errors.New("research topic is required")
	}
	if r.Count < MinPromptCount || r.Count > MaxPromptCount {
		return fmt.Errorf("prompt count must be between %d and %d, got %d", MinPromptCount, MaxPromptCount, r.Count)
	}
	if r.Depth < MinDepth || r.Depth > MaxDepth {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, r.Depth)
	}
	return nil
}

// ResearchItem is the outcome of one research query.
type ResearchItem struct {
	Index     int     `json:"index"`
	Prompt    string  `json:"prompt"`
	Result    *Result `json:"result,omitempty"`
	Formatted string  `json:"formatted"`
	Err       string  `json:"error,omitempty"`
}

// Failed reports whether the query produced no result.
func (i ResearchItem) Failed() bool {
	return i.Result == nil
}

// Report is everything one cycle produced.
type Report struct {
	CycleID    string         `json:"cycle_id"`
	Field      string         `json:"field"`
	Topic      string         `json:"topic"`
	Categories CategoryMap    `json:"categories"`
	Prompts    []string       `json:"prompts"`
	Items      []ResearchItem `json:"items"`
}

type Stage string

const (
	StageGenerating  Stage = "generating"
	StageSampled     Stage = "sampled"
	StageResearching Stage = "researching"
	StageItemDone    Stage = "item_done"
	StageDone        Stage = "done"
)

// ProgressEvent is passed to Engine.OnProgress as a cycle advances.
type ProgressEvent struct {
	CycleID string
	Stage   Stage
	Index   int
	Total   int
	Prompts []string
	Item    *ResearchItem
}

// Engine runs generation cycles. Research queries inside a cycle run one
// after another; a failed query never stops the ones after it.
type Engine struct {
	Generator  *Generator
	Researcher Researcher
	Logger     *slog.Logger
	OnProgress func(ProgressEvent)

	// Rand seeds prompt sampling. Leave nil when the engine serves
	// concurrent cycles.
	Rand *rand.Rand
}

func NewEngine(llm clients.Completer, researcher Researcher) *Engine {
	return &Engine{
		Generator:  &Generator{LLM: llm},
		Researcher: researcher,
		Logger:     slog.Default(),
	}
}

// Run generates categories for the field and topic, samples Count prompts
// and researches each of them. Generator failures abort the cycle, as do an
// empty category set or an empty prompt sample when Count > 0.
func (e *Engine) Run(ctx context.Context, req RunRequest) (*Report, error) {
	if req.Depth < MinDepth || req.Depth > MaxDepth {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDepth, req.Depth)
	}
	if req.Count < 0 {
		req.Count = 0
	}
	focus := req.Focus
	if focus == "" {
		focus = req.Field
	}

	cycleID := uuid.NewString()
	logger := e.logger().With("cycle_id", cycleID)
	logger.Info("Starting research cycle", "field", req.Field, "topic", req.Topic, "count", req.Count, "depth", req.Depth)

	e.progress(ProgressEvent{CycleID: cycleID, Stage: StageGenerating})

	raw, err := e.Generator.GenerateCategories(ctx, req.Field, req.Topic)
	if err != nil {
		logger.Error("Category generation failed", "error", err)
		return nil, err
	}

	categories := ParseCategories(raw)
	logger.Info("Parsed categories", "count", len(categories), "names", categories.Names())
	if len(categories) == 0 && req.Count > 0 {
		logger.Warn("Model response contained no categories", "response_length", len(raw))
		return nil, ErrNoCategories
	}

	sampler := &Sampler{Rand: e.Rand, Field: req.Field}
	prompts := sampler.Sample(categories, req.Count)
	logger.Info("Generated prompts", "requested", req.Count, "count", len(prompts))
	if len(prompts) == 0 && req.Count > 0 {
		logger.Warn("No category had a research prompt or key concepts", "categories", len(categories))
		return nil, ErrNoPrompts
	}

	report := &Report{
		CycleID:    cycleID,
		Field:      req.Field,
		Topic:      req.Topic,
		Categories: categories,
		Prompts:    prompts,
		Items:      make([]ResearchItem, 0, len(prompts)),
	}
	e.progress(ProgressEvent{CycleID: cycleID, Stage: StageSampled, Total: len(prompts), Prompts: prompts})

	for i, prompt := range prompts {
		index := i + 1
		e.progress(ProgressEvent{CycleID: cycleID, Stage: StageResearching, Index: index, Total: len(prompts)})

		instruction, err := BuildInstruction(prompt, req.Depth, focus)
		if err != nil {
			return nil, err
		}

		item := e.query(ctx, logger, index, prompt, instruction)
		report.Items = append(report.Items, item)
		e.progress(ProgressEvent{CycleID: cycleID, Stage: StageItemDone, Index: index, Total: len(prompts), Item: &item})
	}

	e.progress(ProgressEvent{CycleID: cycleID, Stage: StageDone, Total: len(prompts)})
	logger.Info("Research cycle complete", "items", len(report.Items))
	return report, nil
}

// Query sends a prompt to the research API verbatim (direct query mode).
func (e *Engine) Query(ctx context.Context, prompt string) ResearchItem {
	logger := e.logger().With("cycle_id", uuid.NewString())
	logger.Info("Direct research query", "prompt_length", len(prompt))
	return e.query(ctx, logger, 1, prompt, prompt)
}

func (e *Engine) query(ctx context.Context, logger *slog.Logger, index int, prompt, payload string) ResearchItem {
	item := ResearchItem{Index: index, Prompt: prompt}

	result, err := e.Researcher.Query(ctx, payload)
	if err != nil {
		logger.Error("Research query failed", "index", index, "error", err)
		item.Err = fmt.Sprintf("Error querying Perplexity AI: %v", err)
		result = nil
	} else if result == nil {
		logger.Warn("Research query returned no result", "index", index)
	} else {
		logger.Info("Research query complete", "index", index, "citations", len(result.Citations))
	}

	item.Result = result
	item.Formatted = FormatResult(result)
	return item
}

func (e *Engine) progress(ev ProgressEvent) {
	if e.OnProgress != nil {
		e.OnProgress(ev)
	}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
