package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikeboe/research-prompter/pkg/clients"
	"github.com/mikeboe/research-prompter/pkg/config"
	"github.com/mikeboe/research-prompter/pkg/research"
	"github.com/mikeboe/research-prompter/pkg/research/tools"
	"github.com/mikeboe/research-prompter/pkg/terminal"
)

var (
	field       string
	topic       string
	count       int
	depth       int
	queryPrompt string
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "research-prompter",
		Short: "Generate research prompts and query Perplexity AI",
		Long: `research-prompter offers two modes:

1. generate: creates prompts based on a given field and topic, then uses
   Perplexity AI to conduct research on these prompts.
2. query: send your own research prompt and get results directly from
   Perplexity AI.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log cycle details to stderr")

	defaults := research.DefaultInputs()

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate research prompts for a field and topic and research each one",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if !cmd.Flags().Changed("field") {
				if field, err = ask(cmd.OutOrStdout(), in, "Enter the research field", defaults.Field); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("topic") {
				if topic, err = ask(cmd.OutOrStdout(), in, "Enter the research topic", defaults.Topic); err != nil {
					return err
				}
			}

			req := research.RunRequest{
				Field: strings.TrimSpace(field),
				Topic: strings.TrimSpace(topic),
				Count: count,
				Depth: depth,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			engine, renderer, err := setup(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			engine.OnProgress = func(ev research.ProgressEvent) {
				switch ev.Stage {
				case research.StageGenerating:
					renderer.Status("Generating research prompts...")
				case research.StageSampled:
					renderer.Prompts(ev.Prompts)
				case research.StageResearching:
					renderer.Status(fmt.Sprintf("Researching prompt %d...", ev.Index))
				case research.StageItemDone:
					renderer.Item(*ev.Item)
				}
			}

			if _, err := engine.Run(cmd.Context(), req); err != nil {
				return fmt.Errorf("failed to generate research prompts: %w", err)
			}
			return nil
		},
	}
	generateCmd.Flags().StringVarP(&field, "field", "f", defaults.Field, "The research field")
	generateCmd.Flags().StringVarP(&topic, "topic", "t", defaults.Topic, "The research topic")
	generateCmd.Flags().IntVarP(&count, "count", "n", defaults.Count, "Number of prompts to generate (1-10)")
	generateCmd.Flags().IntVarP(&depth, "depth", "d", defaults.Depth, "Depth of research (1-5)")

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Send a research prompt directly to Perplexity AI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("prompt") {
				in := bufio.NewReader(cmd.InOrStdin())
				var err error
				if queryPrompt, err = ask(cmd.OutOrStdout(), in, "Enter your research prompt", defaults.QueryPrompt); err != nil {
					return err
				}
			}
			if strings.TrimSpace(queryPrompt) == "" {
				return fmt.Errorf("research prompt is required")
			}

			engine, renderer, err := setup(cmd.Context(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			renderer.Status("Querying Perplexity AI...")
			renderer.Item(engine.Query(cmd.Context(), queryPrompt))
			return nil
		},
	}
	queryCmd.Flags().StringVarP(&queryPrompt, "prompt", "p", defaults.QueryPrompt, "The research prompt")

	rootCmd.AddCommand(generateCmd, queryCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the engine. Missing API keys fail here,
// before either API is called.
func setup(ctx context.Context, out io.Writer) (*research.Engine, *terminal.Renderer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	llm, err := clients.New(ctx, clients.Backend(cfg.GeneratorBackend), cfg.GoogleApiKey, clients.ModelType(cfg.GeneratorModel), cfg.GeneratorRetries, slog.Default())
	if err != nil {
		return nil, nil, err
	}

	perplexity, err := tools.NewPerplexityClient(tools.PerplexityConfig{
		APIKey:  cfg.PerplexityApiKey,
		BaseURL: cfg.PerplexityBaseURL,
		Model:   cfg.PerplexityModel,
		Timeout: cfg.ResearchTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	renderer, err := terminal.NewRenderer(out, 80)
	if err != nil {
		return nil, nil, err
	}

	return research.NewEngine(llm, perplexity), renderer, nil
}

// ask reads one line, falling back to def on empty input or end of input.
func ask(out io.Writer, in *bufio.Reader, label, def string) (string, error) {
	fmt.Fprintf(out, "%s (default: %s): ", label, def)
	input, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}
	return input, nil
}
