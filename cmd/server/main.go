package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mikeboe/research-prompter/pkg/clients"
	"github.com/mikeboe/research-prompter/pkg/config"
	"github.com/mikeboe/research-prompter/pkg/research"
	"github.com/mikeboe/research-prompter/pkg/research/tools"
	"github.com/mikeboe/research-prompter/pkg/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	llm, err := clients.New(ctx, clients.Backend(cfg.GeneratorBackend), cfg.GoogleApiKey, clients.ModelType(cfg.GeneratorModel), cfg.GeneratorRetries, logger)
	if err != nil {
		slog.Error("Failed to init generator model", "error", err)
		os.Exit(1)
	}

	perplexity, err := tools.NewPerplexityClient(tools.PerplexityConfig{
		APIKey:  cfg.PerplexityApiKey,
		BaseURL: cfg.PerplexityBaseURL,
		Model:   cfg.PerplexityModel,
		Timeout: cfg.ResearchTimeout,
	})
	if err != nil {
		slog.Error("Failed to init research client", "error", err)
		os.Exit(1)
	}

	engine := research.NewEngine(llm, perplexity)

	defaults := research.DefaultInputs()
	if cfg.DefaultPromptCount >= research.MinPromptCount && cfg.DefaultPromptCount <= research.MaxPromptCount {
		defaults.Count = cfg.DefaultPromptCount
	}
	if cfg.DefaultDepth >= research.MinDepth && cfg.DefaultDepth <= research.MaxDepth {
		defaults.Depth = cfg.DefaultDepth
	}
	handler := server.NewHandler(engine, defaults)

	r := gin.New()
	r.Use(gin.Recovery(), server.RequestLogger(logger))

	// CORS Setup
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders: []string{"Content-Length", "X-Request-Id"},
	}))

	handler.RegisterRoutes(r)

	slog.Info("Server starting", "port", cfg.Port, "generator_backend", cfg.GeneratorBackend, "generator_model", cfg.GeneratorModel)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
