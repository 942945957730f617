package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avolkov/ancestree/internal/pipeline"
	"github.com/avolkov/ancestree/internal/table"
)

// Converter converts a single source (file path or URL) into an ancestor tree
type Converter interface {
	Convert(ctx context.Context, source string, format table.Format) (*pipeline.ConvertResult, error)
}

// ConvertJob converts one source
type ConvertJob struct {
	Source    string
	Format    table.Format
	Converter Converter
}

// Execute runs the conversion
func (j *ConvertJob) Execute(ctx context.Context) Result {
	result, err := j.Converter.Convert(ctx, j.Source, j.Format)
	if err != nil {
		return &ConvertOutcome{
			Source: j.Source,
			Error:  err,
		}
	}
	return &ConvertOutcome{
		Source: j.Source,
		Result: result,
	}
}

// ConvertOutcome is the per-source batch result
type ConvertOutcome struct {
	Source string
	Result *pipeline.ConvertResult
	Error  error
}

// GetError returns the conversion error, if any
func (o *ConvertOutcome) GetError() error {
	return o.Error
}

// BatchProcessor converts multiple sources concurrently
type BatchProcessor struct {
	converter   Converter
	format      table.Format
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(converter Converter, format table.Format, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		converter:   converter,
		format:      format,
		concurrency: concurrency,
	}
}

// ProcessSources converts the given sources concurrently
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*ConvertOutcome {
	if len(sources) == 0 {
		return []*ConvertOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, source := range sources {
		pool.Submit(&ConvertJob{
			Source:    source,
			Format:    b.format,
			Converter: b.converter,
		})
	}

	results := pool.Wait()

	outcomes := make([]*ConvertOutcome, len(results))
	for i, result := range results {
		outcomes[i] = result.(*ConvertOutcome)
	}

	return outcomes
}

// ProcessFile reads sources from a manifest file and converts them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ConvertOutcome, error) {
	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads sources from a manifest (one per line, # comments)
func ReadSourcesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
