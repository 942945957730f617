package llm

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildPrompt_IncludesLineage(t *testing.T) {
	req := NarrateRequest{
		RootName:    "Me",
		People:      3,
		Generations: 2,
		OriginMix:   map[string]float64{"Ireland": 0.5, "Italy": 0.5},
		Lineage:     []string{"Me", "Dad (Ireland, 1950)", "Mom (Italy, 1952)"},
	}

	prompt := BuildPrompt(req)

	for _, want := range []string{"- Dad (Ireland, 1950)", "- Mom (Italy, 1952)", "Root person: Me", "People in table: 3", "Generations recorded: 2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_EmptyLineage(t *testing.T) {
	prompt := BuildPrompt(NarrateRequest{RootName: "Me"})

	if !strings.Contains(prompt, "(No lineage recorded)") {
		t.Errorf("expected empty-lineage marker, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "(not computed)") {
		t.Errorf("expected missing-mix marker")
	}
}

func TestBuildPrompt_TruncatesLongLineage(t *testing.T) {
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, fmt.Sprintf("Person %d", i))
	}

	prompt := BuildPrompt(NarrateRequest{RootName: "Me", Lineage: lines})

	if !strings.Contains(prompt, "... and 10 more people") {
		t.Errorf("expected truncation marker for 50 entries")
	}
	if strings.Contains(prompt, "Person 45") {
		t.Errorf("entries past the cutoff should not appear")
	}
}

func TestFormatMix_SortedByWeight(t *testing.T) {
	got := formatMix(map[string]float64{
		"Unknown": 0.25,
		"Ireland": 0.5,
		"Italy":   0.25,
	})

	want := "Ireland 50.0%, Italy 25.0%, Unknown 25.0%"
	if got != want {
		t.Errorf("formatMix = %q, want %q", got, want)
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("expected no error for empty provider, got %v", err)
	}
	if provider != nil {
		t.Errorf("expected nil provider when disabled")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("error should name the provider: %v", err)
	}
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	_, err := NewProvider(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProvider_Ollama(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "ollama", BaseURL: "http://localhost:11434/"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected ollama provider, got %s", provider.Name())
	}
}
