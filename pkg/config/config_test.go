package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("PERPLEXITY_API_KEY", "p-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.GoogleApiKey)
	assert.Equal(t, "p-key", cfg.PerplexityApiKey)
	assert.Equal(t, "langchaingo", cfg.GeneratorBackend)
	assert.Equal(t, 2, cfg.GeneratorRetries)
	assert.Equal(t, "https://api.perplexity.ai", cfg.PerplexityBaseURL)
	assert.Equal(t, "llama-3.1-sonar-small-128k-online", cfg.PerplexityModel)
	assert.Equal(t, 30*time.Second, cfg.ResearchTimeout)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 4, cfg.DefaultPromptCount)
	assert.Equal(t, 3, cfg.DefaultDepth)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "  g-key \n")
	t.Setenv("PERPLEXITY_API_KEY", "p-key")
	t.Setenv("GENERATOR_BACKEND", "genai")
	t.Setenv("GENERATOR_MAX_RETRIES", "0")
	t.Setenv("RESEARCH_TIMEOUT", "5s")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.GoogleApiKey)
	assert.Equal(t, "genai", cfg.GeneratorBackend)
	assert.Equal(t, 0, cfg.GeneratorRetries)
	assert.Equal(t, 5*time.Second, cfg.ResearchTimeout)
	assert.Equal(t, "9000", cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "both keys present",
			cfg:  Config{GoogleApiKey: "g", PerplexityApiKey: "p", ResearchTimeout: time.Second},
		},
		{
			name:    "missing google key",
			cfg:     Config{PerplexityApiKey: "p", ResearchTimeout: time.Second},
			wantErr: "GOOGLE_API_KEY",
		},
		{
			name:    "missing both keys",
			cfg:     Config{ResearchTimeout: time.Second},
			wantErr: "GOOGLE_API_KEY, PERPLEXITY_API_KEY",
		},
		{
			name:    "zero timeout",
			cfg:     Config{GoogleApiKey: "g", PerplexityApiKey: "p"},
			wantErr: "timeout must be at least 1s",
		},
		{
			name:    "sub-second timeout",
			cfg:     Config{GoogleApiKey: "g", PerplexityApiKey: "p", ResearchTimeout: 30 * time.Nanosecond},
			wantErr: "timeout must be at least 1s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadResearchTimeout(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{name: "bare seconds", value: "30", want: 30 * time.Second},
		{name: "duration", value: "45s", want: 45 * time.Second},
		{name: "minutes", value: "2m", want: 2 * time.Minute},
		{name: "padded", value: " 10 ", want: 10 * time.Second},
		{name: "garbage", value: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_API_KEY", "g-key")
			t.Setenv("PERPLEXITY_API_KEY", "p-key")
			t.Setenv("RESEARCH_TIMEOUT", tt.value)

			cfg, err := Load()
			if tt.wantErr {
				assert.ErrorContains(t, err, "RESEARCH_TIMEOUT")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ResearchTimeout)
			assert.NoError(t, cfg.Validate())
		})
	}
}
