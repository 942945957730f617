package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/avolkov/ancestree/internal/model"
)

type fakeProvider struct {
	lastReq NarrateRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error) {
	f.lastReq = req
	return &NarrateResponse{Narrative: "A short family story.", Model: "fake-1", TokensUsed: 42}, nil
}

func sampleTree() *model.TreeNode {
	dad := &model.TreeNode{
		Name:     "Dad",
		ID:       "2",
		Details:  model.NodeDetails{CountryOfOrigin: "Ireland", YearInfo: "1950"},
		Children: []*model.TreeNode{},
	}
	mom := &model.TreeNode{
		Name:     "Mom",
		ID:       "3",
		Details:  model.NodeDetails{CountryOfOrigin: "Italy"},
		Children: []*model.TreeNode{},
	}
	return &model.TreeNode{
		Name:      "Me",
		ID:        "1",
		OriginMix: map[string]float64{"Ireland": 0.5, "Italy": 0.5},
		Children:  []*model.TreeNode{dad, mom},
	}
}

func TestNewSummarizer_Disabled(t *testing.T) {
	s, err := NewSummarizer(Config{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s != nil {
		t.Errorf("expected nil summarizer when no provider configured")
	}
	if s.IsEnabled() {
		t.Errorf("nil summarizer must report disabled")
	}
}

func TestGenerateNarrative(t *testing.T) {
	fake := &fakeProvider{}
	s := &Summarizer{provider: fake, config: Config{Model: "fake-1", MaxTokens: 200}}

	n, err := s.GenerateNarrative(context.Background(), sampleTree(), model.Stats{People: 3})
	if err != nil {
		t.Fatalf("GenerateNarrative failed: %v", err)
	}

	if n.Text != "A short family story." {
		t.Errorf("unexpected text: %q", n.Text)
	}
	if n.Provider != "fake" || n.Model != "fake-1" || n.TokensUsed != 42 {
		t.Errorf("provenance not populated: %+v", n)
	}
	if !n.Enabled {
		t.Errorf("narrative should be marked enabled")
	}

	if fake.lastReq.RootName != "Me" {
		t.Errorf("expected root name Me, got %q", fake.lastReq.RootName)
	}
	if fake.lastReq.Generations != 2 {
		t.Errorf("expected 2 generations, got %d", fake.lastReq.Generations)
	}
	if len(fake.lastReq.Lineage) != 3 {
		t.Fatalf("expected 3 lineage lines, got %v", fake.lastReq.Lineage)
	}
	if fake.lastReq.Lineage[1] != "Dad (Ireland, 1950)" {
		t.Errorf("unexpected lineage line: %q", fake.lastReq.Lineage[1])
	}
	if fake.lastReq.Lineage[2] != "Mom (Italy)" {
		t.Errorf("unexpected lineage line: %q", fake.lastReq.Lineage[2])
	}
}

func TestGenerateNarrative_ErrorDocument(t *testing.T) {
	s := &Summarizer{provider: &fakeProvider{}}

	if _, err := s.GenerateNarrative(context.Background(), model.ErrorDocument("empty input"), model.Stats{}); err == nil {
		t.Fatal("expected error for error document")
	}
}

func TestLineageLines_SkipsCycleMarkers(t *testing.T) {
	root := sampleTree()
	root.Children = append(root.Children, &model.TreeNode{
		Name:     "LOOP: Dad",
		ID:       "2",
		Children: []*model.TreeNode{},
	})

	lines := lineageLines(root)
	for _, line := range lines {
		if strings.HasPrefix(line, "LOOP:") {
			t.Errorf("cycle marker leaked into lineage: %q", line)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	n := &Narrative{Provider: "fake", Model: "fake-1", Text: "Story."}
	md := RenderMarkdown(n)

	if !strings.Contains(md, "# Family Origins Narrative") {
		t.Errorf("missing heading")
	}
	if !strings.Contains(md, "Story.") {
		t.Errorf("missing narrative text")
	}
	if !strings.Contains(md, "fake/fake-1") {
		t.Errorf("missing provenance line")
	}
}
