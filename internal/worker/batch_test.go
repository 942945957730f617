package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/avolkov/ancestree/internal/model"
	"github.com/avolkov/ancestree/internal/pipeline"
	"github.com/avolkov/ancestree/internal/table"
)

// MockConverter implements the Converter interface
type MockConverter struct {
	ShouldError bool
}

func (m *MockConverter) Convert(ctx context.Context, source string, format table.Format) (*pipeline.ConvertResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("convert error")
	}
	return &pipeline.ConvertResult{
		Source:   source,
		Document: &model.TreeNode{Name: "Me", ID: "1", Children: []*model.TreeNode{}},
	}, nil
}

func TestBatchProcessor_ProcessSources(t *testing.T) {
	converter := &MockConverter{}
	processor := NewBatchProcessor(converter, table.FormatAuto, 2)

	sources := []string{"a.csv", "b.csv", "http://example.com/export.csv"}
	results := processor.ProcessSources(context.Background(), sources)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Result == nil || res.Result.Document == nil {
				t.Error("expected document for successful conversion")
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.Source, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessSources_Error(t *testing.T) {
	converter := &MockConverter{ShouldError: true}
	processor := NewBatchProcessor(converter, table.FormatAuto, 2)

	results := processor.ProcessSources(context.Background(), []string{"a.csv"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_ProcessSources_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockConverter{}, table.FormatAuto, 2)

	results := processor.ProcessSources(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadSourcesFromFile(t *testing.T) {
	content := `family-a.csv
# shared sheet
https://example.com/pub?output=csv

family-b.tsv   `

	tmpfile, err := os.CreateTemp("", "sources")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	sources, err := ReadSourcesFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadSourcesFromFile failed: %v", err)
	}

	expected := []string{"family-a.csv", "https://example.com/pub?output=csv", "family-b.tsv"}
	if len(sources) != len(expected) {
		t.Fatalf("expected %d sources, got %d", len(expected), len(sources))
	}

	for i, source := range sources {
		if source != expected[i] {
			t.Errorf("expected source %s at index %d, got %s", expected[i], i, source)
		}
	}
}

func TestReadSourcesFromFile_NonExistent(t *testing.T) {
	if _, err := ReadSourcesFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadSourcesFromFile_Deduplication(t *testing.T) {
	content := "family.csv\nfamily.csv\n"

	tmpfile, err := os.CreateTemp("", "sources_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	sources, err := ReadSourcesFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadSourcesFromFile failed: %v", err)
	}

	if len(sources) != 1 {
		t.Errorf("expected 1 source after deduplication, got %d", len(sources))
	}
}

func TestConvertOutcome_GetError(t *testing.T) {
	o1 := &ConvertOutcome{Source: "a.csv"}
	if o1.GetError() != nil {
		t.Errorf("expected nil error, got %v", o1.GetError())
	}

	expected := errors.New("convert failed")
	o2 := &ConvertOutcome{Source: "a.csv", Error: expected}
	if o2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, o2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := "a.csv\nb.csv\n# comment\n\nc.csv\n"

	tmpfile, err := os.CreateTemp("", "batch_sources")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&MockConverter{}, table.FormatAuto, 2)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockConverter{}, table.FormatAuto, 2)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
