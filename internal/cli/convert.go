package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avolkov/ancestree/internal/model"
	"github.com/avolkov/ancestree/internal/pipeline"
	"github.com/avolkov/ancestree/internal/table"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	inFormat    string
	rootToken   string
	mixEpsilon  float64
	noOrigin    bool
	compact     bool
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	insecureTLS bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <source>",
	Short: "Convert one family table into an ancestor tree JSON document",
	Long: `Convert reads a family table from a local file or a published
spreadsheet URL and emits the nested ancestor tree:
- Detect the input form (grid or records) and parse person cells
- Infer father/mother links from layout or explicit parent ids
- Compute blended origin mixtures up the ancestry
- Materialize a cycle-safe tree from the root person

Example:
  ancestree convert family.csv
  ancestree convert family.csv --json tree.json --root me
  ancestree convert https://example.com/pub?output=csv --format csv
  ancestree convert family.csv --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Output flags
	convertCmd.Flags().StringVar(&outJSON, "json", "-", "output JSON path (- for stdout)")
	convertCmd.Flags().BoolVar(&compact, "compact", false, "emit compact JSON without indentation")

	// Parsing flags
	convertCmd.Flags().StringVar(&inFormat, "format", "auto", "input format (csv, tsv, html, auto)")
	convertCmd.Flags().StringVar(&rootToken, "root", "me", "self-referential token naming the root person")
	convertCmd.Flags().Float64Var(&mixEpsilon, "epsilon", 0.001, "drop origin weights below this threshold")
	convertCmd.Flags().BoolVar(&noOrigin, "no-origin", false, "skip origin mixture computation")

	// HTTP flags
	convertCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall conversion timeout")
	convertCmd.Flags().StringVar(&userAgent, "ua", "ancestree/0.2 (+https://github.com/avolkov/ancestree)", "HTTP User-Agent")
	convertCmd.Flags().Int64Var(&maxBytes, "max-bytes", 5_000_000, "max response bytes to read")
	convertCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	convertCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")

	// LLM flags
	convertCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	convertCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	convertCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Converting: %s\n", source)
		fmt.Fprintf(os.Stderr, "Format: %s\n", inFormat)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	format, err := parseFormat(inFormat)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Convert(ctx, source, format)
	if err != nil {
		return fmt.Errorf("convert failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Parsed %d people\n", result.Stats.People)
		fmt.Fprintf(os.Stderr, "✓ Linked %d fathers, %d mothers\n", result.Stats.Fathers, result.Stats.Mothers)
		if result.Narrative != nil {
			fmt.Fprintf(os.Stderr, "✓ Generated narrative using %s/%s\n", result.Narrative.Provider, result.Narrative.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderResult(result, outJSON, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig merges defaults with the convert command's flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = !noCache
	cfg.Tree.RootToken = rootToken
	cfg.Tree.MixEpsilon = mixEpsilon
	cfg.Tree.ComputeOrigin = !noOrigin
	cfg.Output.Verbose = verbose
	cfg.Output.Indent = !compact

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

func parseFormat(name string) (table.Format, error) {
	switch name {
	case "csv":
		return table.FormatCSV, nil
	case "tsv":
		return table.FormatTSV, nil
	case "html":
		return table.FormatHTML, nil
	case "auto", "":
		return table.FormatAuto, nil
	default:
		return "", fmt.Errorf("unknown format: %s (supported: csv, tsv, html, auto)", name)
	}
}
