package clients

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GenAICompleter calls Gemini through the google.golang.org/genai SDK.
type GenAICompleter struct {
	client *genai.Client
	model  string
}

// NewGenAI creates a Gemini API client (API key auth).
func NewGenAI(ctx context.Context, apiKey string, model ModelType) (*GenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("google api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return &GenAICompleter{
		client: client,
		model:  string(model),
	}, nil
}

func (c *GenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}
	return text, nil
}
