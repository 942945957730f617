package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avolkov/ancestree/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Narrate generates a short family-origins narrative
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest contains the input for narrative generation
type NarrateRequest struct {
	// RootName is the name of the person at the root of the tree
	RootName string

	// People is the number of individuals in the converted table
	People int

	// Generations is the depth of the materialized tree
	Generations int

	// OriginMix is the root person's computed origin mixture
	OriginMix map[string]float64

	// Lineage lists ancestors in tree order, one compact line each.
	// This is the ONLY factual material the narrative may draw on.
	Lineage []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// NarrateResponse contains the LLM's narrative output
type NarrateResponse struct {
	// Narrative is the generated text
	Narrative string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// BuildPrompt constructs the default prompt for narrative generation. The
// lineage list is the factual allowlist: the model must not invent people,
// places, or dates beyond it.
func BuildPrompt(req NarrateRequest) string {
	prompt := fmt.Sprintf(`You are writing a short family-origins narrative from a converted genealogy table.

CRITICAL RULES:
1. You MUST ONLY mention people, places, and dates from this lineage list:
%s

2. DO NOT infer, speculate, or add historical detail beyond this list.
3. If a person's origin or dates are missing, say nothing about them.
4. Weights describe ancestry composition, not certainty. Use phrases like:
   - "Roughly half of the known lineage traces to..."
   - "The earliest recorded ancestor is..."
   - "Records are missing for..."

Tree Summary:
- Root person: %s
- People in table: %d
- Generations recorded: %d
- Origin composition: %s
`, joinLineage(req.Lineage), req.RootName, req.People, req.Generations, formatMix(req.OriginMix))

	prompt += "\nWrite a 3-4 sentence narrative of where this family comes from, grounded only in the list above."

	return prompt
}

// Helper functions

func joinLineage(lines []string) string {
	if len(lines) == 0 {
		return "(No lineage recorded)"
	}
	result := ""
	for i, line := range lines {
		if i >= 40 { // Limit to first 40 to avoid token bloat
			result += fmt.Sprintf("\n... and %d more people", len(lines)-40)
			break
		}
		result += fmt.Sprintf("\n- %s", line)
	}
	return result
}

func formatMix(mix map[string]float64) string {
	if len(mix) == 0 {
		return "(not computed)"
	}

	countries := make([]string, 0, len(mix))
	for country := range mix {
		countries = append(countries, country)
	}
	// Largest weight first, name as tiebreak
	sort.Slice(countries, func(i, j int) bool {
		if mix[countries[i]] != mix[countries[j]] {
			return mix[countries[i]] > mix[countries[j]]
		}
		return countries[i] < countries[j]
	})

	parts := make([]string, 0, len(countries))
	for _, country := range countries {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", country, mix[country]*100))
	}
	return strings.Join(parts, ", ")
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}
