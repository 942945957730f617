package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/avolkov/ancestree/internal/pipeline"
	"github.com/avolkov/ancestree/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Convert multiple family tables from a manifest in parallel",
	Long: `Batch converts multiple sources concurrently:
- Read sources (file paths or URLs) from a manifest, one per line
- Convert sources in parallel with a configurable worker count
- Remote fetches share a per-host rate limit
- Write one tree JSON per source into the output directory

Example:
  ancestree batch sources.txt
  ancestree batch sources.txt --concurrency 8 --output-dir ./trees
  ancestree batch sources.txt --root me --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./ancestree-trees", "output directory for tree documents")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared conversion flags
	batchCmd.Flags().DurationVar(&timeout, "convert-timeout", 30*time.Second, "timeout for individual conversions")
	batchCmd.Flags().StringVar(&inFormat, "format", "auto", "input format (csv, tsv, html, auto)")
	batchCmd.Flags().StringVar(&rootToken, "root", "me", "self-referential token naming the root person")
	batchCmd.Flags().StringVar(&userAgent, "ua", "ancestree/0.2 (+https://github.com/avolkov/ancestree)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Ancestree Batch Conversion\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	format, err := parseFormat(inFormat)
	if err != nil {
		return err
	}

	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, format, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading sources from manifest...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process manifest: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d sources\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Converting with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		successCount++

		jsonPath := filepath.Join(outputDir, sanitizeFilename(result.Source)+".json")
		if err := p.RenderResult(result.Result, jsonPath, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Source, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d people)\n", result.Source, result.Result.Stats.People)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d sources\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename derives a safe output name from a source path or URL
func sanitizeFilename(source string) string {
	s := source
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	if idx := strings.IndexAny(s, "?#"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSuffix(filepath.Base(filepath.ToSlash(s)), filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)

	if s == "" || s == "." {
		s = "tree"
	}
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
