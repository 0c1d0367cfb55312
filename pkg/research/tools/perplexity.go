package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/mikeboe/research-prompter/pkg/research"
)

const (
	DefaultPerplexityBaseURL = "https://api.perplexity.ai"
	DefaultPerplexityModel   = "llama-3.1-sonar-small-128k-online"
	DefaultTimeout           = 30 * time.Second

	researchSystemPrompt = "You are a helpful research assistant."
	researchMaxTokens    = 2000
	researchTemperature  = 0.2
)

// ErrNoResult wraps every failed research query: transport errors,
// timeouts, non-2xx statuses and empty answers.
var ErrNoResult = errors.New("no result from research API")

type PerplexityConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// HTTPClient is optional.
	HTTPClient *http.Client
}

// PerplexityClient queries the Perplexity chat completions API, which speaks
// the OpenAI wire format plus a top-level "citations" array.
type PerplexityClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
	Logger  *slog.Logger
}

func NewPerplexityClient(cfg PerplexityConfig) (*PerplexityClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("perplexity api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPerplexityBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultPerplexityModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
		// exactly one attempt per prompt
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &PerplexityClient{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		Logger:  slog.Default(),
	}, nil
}

// Query sends prompt as a single user turn and returns the answer with its
// citation URLs in API order.
func (c *PerplexityClient) Query(ctx context.Context, prompt string) (*research.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(researchSystemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(researchMaxTokens),
		Temperature: openai.Float(researchTemperature),
	}, option.WithJSONSet("return_citations", true))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: API returned status %d: %v", ErrNoResult, apiErr.StatusCode, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNoResult, err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: response had no choices", ErrNoResult)
	}

	result := &research.Result{
		Content:   completion.Choices[0].Message.Content,
		Citations: parseCitations(completion.RawJSON()),
	}
	c.Logger.Debug("Research API response received", "latency", time.Since(start), "citations", len(result.Citations))
	return result, nil
}

// parseCitations reads "citations" as either [{"url": ...}] or [string].
func parseCitations(raw string) []string {
	citations := []string{}
	gjson.Get(raw, "citations").ForEach(func(_, v gjson.Result) bool {
		url := v.String()
		if v.IsObject() {
			url = v.Get("url").String()
		}
		if url != "" {
			citations = append(citations, url)
		}
		return true
	})
	return citations
}
