package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ModelType names a Gemini model.
type ModelType string

const (
	// DefaultModel is the default model to use if none is specified
	DefaultModel ModelType = "gemini-3-flash-preview"
	ProModel     ModelType = "gemini-3-pro-preview"
)

// Backend selects the library used to reach the generative model.
type Backend string

const (
	BackendLangchain Backend = "langchaingo"
	BackendGenAI     Backend = "genai"
)

// Completer turns prompt text into response text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMCompleter adapts a langchaingo model to Completer.
// Calls run at temperature 0 with no explicit output cap.
type LLMCompleter struct {
	LLM llms.Model
}

func (c *LLMCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.LLM, prompt, llms.WithTemperature(0))
}

// GoogleAi builds a langchaingo Gemini model for the given API key.
func GoogleAi(ctx context.Context, apiKey string, model ModelType) (*LLMCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	// See https://ai.google.dev/gemini-api/docs/models/gemini for possible models
	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(string(model)))
	if err != nil {
		return nil, fmt.Errorf("failed to init googleai model: %w", err)
	}

	return &LLMCompleter{LLM: llm}, nil
}

// New builds the Completer for backend and wraps it with maxRetries retries.
func New(ctx context.Context, backend Backend, apiKey string, model ModelType, maxRetries int, logger *slog.Logger) (Completer, error) {
	var (
		base Completer
		err  error
	)

	switch backend {
	case BackendLangchain, "":
		base, err = GoogleAi(ctx, apiKey, model)
	case BackendGenAI:
		base, err = NewGenAI(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("invalid generator backend: %s", backend)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(base, maxRetries, logger), nil
}
