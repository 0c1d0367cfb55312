package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys. Each one can be set in research-prompter.yaml or as an
// upper-cased environment variable (GOOGLE_API_KEY, PORT, ...).
const (
	KeyGoogleAPIKey       = "google_api_key"
	KeyPerplexityAPIKey   = "perplexity_api_key"
	KeyGeneratorBackend   = "generator_backend"
	KeyGeneratorModel     = "generator_model"
	KeyGeneratorRetries   = "generator_max_retries"
	KeyPerplexityBaseURL  = "perplexity_base_url"
	KeyPerplexityModel    = "perplexity_model"
	KeyResearchTimeout    = "research_timeout"
	KeyPort               = "port"
	KeyDefaultPromptCount = "default_prompt_count"
	KeyDefaultDepth       = "default_depth"
)

type Config struct {
	GoogleApiKey       string
	PerplexityApiKey   string
	GeneratorBackend   string
	GeneratorModel     string
	GeneratorRetries   int
	PerplexityBaseURL  string
	PerplexityModel    string
	ResearchTimeout    time.Duration
	Port               string
	DefaultPromptCount int
	DefaultDepth       int
}

// Load reads .env (if present), then research-prompter.yaml from the working
// directory (if present), then the environment. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("research-prompter")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		slog.Info("Using config file", "path", v.ConfigFileUsed())
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyGoogleAPIKey, "")
	v.SetDefault(KeyPerplexityAPIKey, "")
	v.SetDefault(KeyGeneratorBackend, "langchaingo")
	v.SetDefault(KeyGeneratorModel, "gemini-3-flash-preview")
	v.SetDefault(KeyGeneratorRetries, 2)
	v.SetDefault(KeyPerplexityBaseURL, "https://api.perplexity.ai")
	v.SetDefault(KeyPerplexityModel, "llama-3.1-sonar-small-128k-online")
	v.SetDefault(KeyResearchTimeout, "30s")
	v.SetDefault(KeyPort, "8081")
	v.SetDefault(KeyDefaultPromptCount, 4)
	v.SetDefault(KeyDefaultDepth, 3)
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeout, err := parseTimeout(v.GetString(KeyResearchTimeout))
	if err != nil {
		return nil, err
	}

	return &Config{
		GoogleApiKey:       strings.TrimSpace(v.GetString(KeyGoogleAPIKey)),
		PerplexityApiKey:   strings.TrimSpace(v.GetString(KeyPerplexityAPIKey)),
		GeneratorBackend:   v.GetString(KeyGeneratorBackend),
		GeneratorModel:     v.GetString(KeyGeneratorModel),
		GeneratorRetries:   v.GetInt(KeyGeneratorRetries),
		PerplexityBaseURL:  v.GetString(KeyPerplexityBaseURL),
		PerplexityModel:    v.GetString(KeyPerplexityModel),
		ResearchTimeout:    timeout,
		Port:               v.GetString(KeyPort),
		DefaultPromptCount: v.GetInt(KeyDefaultPromptCount),
		DefaultDepth:       v.GetInt(KeyDefaultDepth),
	}, nil
}

// parseTimeout accepts a Go duration ("30s", "1m") or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToUpper(KeyResearchTimeout), raw, err)
	}
	return d, nil
}

// Validate reports every required key that is missing. Both API keys must be
// present before either API is called.
func (c *Config) Validate() error {
	var missing []string
	if c.GoogleApiKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if c.PerplexityApiKey == "" {
		missing = append(missing, "PERPLEXITY_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.ResearchTimeout < time.Second {
		return fmt.Errorf("research timeout must be at least 1s, got %s", c.ResearchTimeout)
	}
	return nil
}
