package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/ancestree/internal/model"
)

// Summarizer turns a materialized ancestor tree into a short prose narrative.
// The narrative is a side artifact: it never feeds back into the tree or the
// origin mixtures.
type Summarizer struct {
	provider Provider
	config   Config
}

// Narrative is the generated family-origins text plus provenance
type Narrative struct {
	Enabled     bool      `json:"enabled"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Text        string    `json:"text"`
	TokensUsed  int       `json:"tokens_used"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewSummarizer creates a summarizer for the configured provider.
// Returns (nil, nil) when no provider is configured.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether narrative generation is active
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateNarrative produces a narrative for the given tree
func (s *Summarizer) GenerateNarrative(ctx context.Context, doc *model.TreeNode, stats model.Stats) (*Narrative, error) {
	if !s.IsEnabled() {
		return nil, nil
	}
	if doc == nil || doc.IsErrorDocument() {
		return nil, fmt.Errorf("no tree to narrate")
	}

	req := NarrateRequest{
		RootName:    doc.Name,
		People:      stats.People,
		Generations: treeDepth(doc),
		OriginMix:   doc.OriginMix,
		Lineage:     lineageLines(doc),
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	}

	resp, err := s.provider.Narrate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	return &Narrative{
		Enabled:     true,
		Provider:    s.provider.Name(),
		Model:       resp.Model,
		Text:        resp.Narrative,
		TokensUsed:  resp.TokensUsed,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// RenderMarkdown formats a narrative for the standalone .llm.md artifact
func RenderMarkdown(n *Narrative) string {
	var b strings.Builder
	b.WriteString("# Family Origins Narrative\n\n")
	b.WriteString(n.Text)
	b.WriteString("\n\n---\n")
	b.WriteString(fmt.Sprintf("Generated by %s/%s at %s. ", n.Provider, n.Model, n.GeneratedAt.Format(time.RFC3339)))
	b.WriteString("This text is machine-generated from the converted table and may misread sparse records.\n")
	return b.String()
}

// treeDepth returns the number of generations in the tree
func treeDepth(node *model.TreeNode) int {
	if node == nil {
		return 0
	}
	max := 0
	for _, child := range node.Children {
		if d := treeDepth(child); d > max {
			max = d
		}
	}
	return max + 1
}

// lineageLines flattens the tree into compact fact lines, root first.
// Cycle markers are structural, not people, so they are skipped.
func lineageLines(node *model.TreeNode) []string {
	if node == nil || strings.HasPrefix(node.Name, "LOOP:") {
		return nil
	}

	line := node.Name
	var facts []string
	if node.Details.CountryOfOrigin != "" {
		facts = append(facts, node.Details.CountryOfOrigin)
	}
	if node.Details.YearInfo != "" {
		facts = append(facts, node.Details.YearInfo)
	}
	if len(facts) > 0 {
		line += " (" + strings.Join(facts, ", ") + ")"
	}

	lines := []string{line}
	for _, child := range node.Children {
		lines = append(lines, lineageLines(child)...)
	}
	return lines
}
