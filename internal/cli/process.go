package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimroute/internal/cache"
	"github.com/ppiankov/claimroute/internal/extract"
	"github.com/ppiankov/claimroute/internal/extract/adapters"
	"github.com/ppiankov/claimroute/internal/llm"
	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/pipeline"
	"github.com/ppiankov/claimroute/internal/worker"
)

var (
	outputDir   string
	noAI        bool
	noCache     bool
	xlsxPath    string
	timeout     time.Duration
	noSummary   bool
	llmProvider string
	llmModel    string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <file-or-url>",
	Short: "Extract and route a single FNOL document",
	Long: `Process runs one FNOL document through the full pipeline:
- Load the file or URL (PDF, HTML or text)
- Extract claim fields (LLM when configured, regex otherwise)
- Check mandatory fields and consistency
- Recommend a route with reasoning

The result is written to <output-dir>/<name>_output.json.

Example:
  claimroute process data/input/fnol_fast_track.pdf
  claimroute process claim.txt --no-ai --output-dir ./out
  claimroute process https://example.com/fnol.html --xlsx claims.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	addPipelineFlags(processCmd)
	processCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "timeout for the whole run")
}

// addPipelineFlags registers the flags shared by process and batch
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for JSON results (default from config)")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "disable LLM extraction (regex only)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the extraction cache")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX workbook of routed claims")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "do not print the terminal summary")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// resolveConfig loads the layered config and applies command flags on top
func resolveConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if noAI {
		cfg.Extraction.UseAI = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noSummary {
		cfg.Output.Summary = false
	}
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.APIKey = ""
		applyProviderEnv(cfg)
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	return cfg, nil
}

// newProvider returns the configured LLM provider, or nil when extraction
// should run on regex alone
func newProvider(cfg *model.Config, logger *slog.Logger) llm.Provider {
	if !cfg.Extraction.UseAI {
		logger.Info("LLM extraction disabled, using regex")
		return nil
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg, logger))
	if err != nil {
		logger.Warn("LLM unavailable, using regex", "provider", cfg.LLM.Provider, "error", err)
		return nil
	}
	return provider
}

// buildPipeline wires cache, LLM, adapters and limiter into a pipeline
func buildPipeline(cfg *model.Config, limiter *worker.Limiter, logger *slog.Logger) (*pipeline.Pipeline, error) {
	extractor := extract.New(extract.Options{
		Adapters:  adapters.NewRegistry(cfg.Extraction.Pdftotext, nil, logger),
		Provider:  newProvider(cfg, logger),
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Cache:     cache.New(cfg.Cache),
		Limiter:   limiter,
		Logger:    logger,
	})

	return pipeline.NewPipeline(cfg, extractor, logger)
}

// newLimiter throttles LLM providers and remote hosts; local files are not throttled
func newLimiter(cfg *model.Config) *worker.Limiter {
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	limiter.SetRate(worker.LocalKey, 0, 1)
	return limiter
}

func runProcess(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg, newLimiter(cfg), logger)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Processing %s...\n", source)
	}

	result, err := p.Process(ctx, source)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	outPath := pipeline.OutputPath(cfg.Output.Dir, source)
	if err := pipeline.WriteJSON(result.Output, outPath); err != nil {
		return err
	}

	if cfg.Output.Summary {
		pipeline.RenderSummary(cmd.OutOrStdout(), result)
	}
	fmt.Fprintf(os.Stderr, "✓ Output saved to: %s\n", outPath)

	if xlsxPath != "" {
		if err := pipeline.WriteWorkbook([]*pipeline.Result{result}, xlsxPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Workbook saved to: %s\n", xlsxPath)
	}
	return nil
}
