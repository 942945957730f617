package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkov/ancestree/internal/cache"
	"github.com/avolkov/ancestree/internal/llm"
	"github.com/avolkov/ancestree/internal/model"
	"github.com/avolkov/ancestree/internal/origin"
	"github.com/avolkov/ancestree/internal/table"
	"github.com/avolkov/ancestree/internal/tree"
	"github.com/avolkov/ancestree/internal/util"
)

// Pipeline orchestrates the complete conversion: load the export, build the
// person table, enrich origin mixtures, and materialize the ancestor tree.
type Pipeline struct {
	fetcher    *Fetcher
	robots     *util.RobotsChecker
	limiter    *util.HostLimiter
	exports    cache.Cache // nil when caching disabled
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional narrative generation (nil if disabled)
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	var exports cache.Cache
	if cfg.Cache.Enabled {
		exports = cache.NewLayeredCache(cfg.Cache.TTL, cacheDir(cfg.Cache.Dir), cfg.Cache.TTL)
	}

	return &Pipeline{
		fetcher:    NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, cfg.HTTP.InsecureTLS),
		robots:     util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		limiter:    util.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize),
		exports:    exports,
		renderer:   NewRenderer(cfg.Output.Indent),
		summarizer: summarizer,
		config:     cfg,
	}
}

// ConvertResult contains the complete conversion output
type ConvertResult struct {
	Source    string
	Document  *model.TreeNode
	Stats     model.Stats
	Warnings  []string
	Narrative *llm.Narrative // nil unless LLM narrative was generated
}

// Convert converts a single source (file path or URL) into an ancestor tree.
// Parse-level problems degrade to warnings and, at worst, an error document;
// a non-nil error means the source itself could not be read.
func (p *Pipeline) Convert(ctx context.Context, source string, format table.Format) (*ConvertResult, error) {
	// 1. Load raw export bytes
	data, err := p.load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}

	// 2. Decode into rows
	rows, err := table.Rows(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}

	// 3. Build the flat person table
	result := table.Build(rows)
	warnings := append([]string{}, result.Warnings...)
	stats := result.Stats

	if len(result.People) == 0 {
		return &ConvertResult{
			Source:   source,
			Document: model.ErrorDocument("could not parse any people from input"),
			Stats:    stats,
			Warnings: warnings,
		}, nil
	}

	// 4. Enrich origin mixtures
	if p.config.Tree.ComputeOrigin {
		resolver := origin.NewResolver(result.People, p.config.Tree.MixEpsilon)
		resolver.EnrichAll()
		warnings = append(warnings, resolver.Warnings()...)
	}

	// 5. Materialize the tree from the root person
	rootID, ok := tree.FindRoot(result.People, p.config.Tree.RootToken)
	if !ok {
		return &ConvertResult{
			Source:   source,
			Document: model.ErrorDocument("could not find a root person"),
			Stats:    stats,
			Warnings: warnings,
		}, nil
	}

	materializer := tree.NewMaterializer(result.People)
	doc := materializer.Build(rootID)
	warnings = append(warnings, materializer.Warnings()...)
	stats.CyclesBroken = materializer.CyclesBroken()

	if doc == nil {
		return &ConvertResult{
			Source:   source,
			Document: model.ErrorDocument("could not build tree from root " + rootID),
			Stats:    stats,
			Warnings: warnings,
		}, nil
	}

	converted := &ConvertResult{
		Source:   source,
		Document: doc,
		Stats:    stats,
		Warnings: warnings,
	}

	// 6. Generate narrative if enabled (AFTER the tree; never affects it)
	if p.summarizer.IsEnabled() {
		narrative, err := p.summarizer.GenerateNarrative(ctx, doc, stats)
		if err != nil {
			converted.Warnings = append(converted.Warnings, fmt.Sprintf("narrative generation failed: %v", err))
		} else {
			converted.Narrative = narrative
		}
	}

	return converted, nil
}

// load reads the source bytes from disk or over HTTP. Remote fetches are
// gated by robots.txt and the per-host rate limiter, and cached between runs.
func (p *Pipeline) load(ctx context.Context, source string) ([]byte, error) {
	if !isRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}

	key := cache.Key(source)
	if p.exports != nil {
		if data, found := p.exports.Get(key); found {
			return data, nil
		}
	}

	allowed, err := p.robots.CanFetch(ctx, source)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", source)
	}

	if err := p.limiter.Wait(ctx, source); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	fetched, err := p.fetcher.FetchWithRetry(ctx, source)
	if err != nil {
		return nil, err
	}

	if p.exports != nil {
		if err := p.exports.Set(key, fetched.Body, 0); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache export: %v\n", err)
		}
	}

	return fetched.Body, nil
}

// RenderResult renders the conversion to the JSON path ("-" or "" for stdout)
// and prints a summary to stderr
func (p *Pipeline) RenderResult(result *ConvertResult, jsonPath string, verbose bool) error {
	if err := p.renderer.RenderJSON(result.Document, jsonPath); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}
	if verbose && jsonPath != "" && jsonPath != "-" {
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
	}

	// Narrative goes to a sibling .llm.md file, never into the document
	if result.Narrative != nil && jsonPath != "" && jsonPath != "-" {
		mdPath := strings.TrimSuffix(jsonPath, ".json") + ".llm.md"
		if err := p.renderer.RenderNarrative(llm.RenderMarkdown(result.Narrative), mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write narrative: %v\n", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote narrative: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(result, verbose)
	return nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// cacheDir resolves the export cache location, defaulting under the home dir
func cacheDir(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ancestree-cache"
	}
	return filepath.Join(home, ".ancestree", "cache")
}
