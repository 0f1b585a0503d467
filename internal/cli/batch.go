package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimroute/internal/pipeline"
	"github.com/ppiankov/claimroute/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Route many FNOL documents in parallel",
	Long: `Batch processes many FNOL documents concurrently:
- A directory is scanned for *.pdf, *.html, *.htm and *.txt files
- Any other file is read as a list of paths or URLs (one per line, # comments)
- LLM calls are rate limited per provider, remote downloads per host
- A failing document is reported and the rest continue

Example:
  claimroute batch data/input
  claimroute batch claims.txt --concurrency 8 --output-dir ./out
  claimroute batch data/input --no-ai --xlsx routes.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addPipelineFlags(batchCmd)
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}
	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = runtime.NumCPU()
	}

	sources, err := worker.CollectSources(input)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no documents found in %s", input)
	}

	limiter := newLimiter(cfg)
	p, err := buildPipeline(cfg, limiter, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  claimroute batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s (%d documents)\n", input, len(sources))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, limiter)
	claimResults := processor.ProcessSources(ctx, sources)

	var routed []*pipeline.Result
	failures := 0
	for _, cr := range claimResults {
		if cr.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", cr.Source, cr.Error)
			continue
		}

		outPath := pipeline.OutputPath(cfg.Output.Dir, cr.Source)
		if err := pipeline.WriteJSON(cr.Result.Output, outPath); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", cr.Source, err)
			continue
		}
		routed = append(routed, cr.Result)

		fmt.Fprintf(os.Stderr, "✓ %s → %s\n", cr.Source, cr.Result.Output.RecommendedRoute)
		if cfg.Output.Summary && cfg.Output.Verbose {
			pipeline.RenderSummary(cmd.OutOrStdout(), cr.Result)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	pipeline.RenderDistribution(cmd.OutOrStdout(), routed)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d\n", len(claimResults))
	fmt.Fprintf(os.Stderr, "  Routed:    %d\n", len(routed))
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)

	if xlsxPath != "" && len(routed) > 0 {
		if err := pipeline.WriteWorkbook(routed, xlsxPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  Workbook:  %s\n", xlsxPath)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if len(routed) == 0 {
		return fmt.Errorf("all %d documents failed", len(claimResults))
	}
	return nil
}
