package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/avolkov/ancestree/internal/model"
)

// Renderer writes conversion output
type Renderer struct {
	indent bool
}

// NewRenderer creates a renderer
func NewRenderer(indent bool) *Renderer {
	return &Renderer{indent: indent}
}

// RenderJSON writes the tree document to path, or stdout when path is "-" or empty
func (r *Renderer) RenderJSON(doc *model.TreeNode, path string) error {
	var data []byte
	var err error
	if r.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderNarrative writes the standalone narrative markdown
func (r *Renderer) RenderNarrative(markdown, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("write narrative: %w", err)
	}
	return nil
}

// RenderSummary prints run statistics to stderr. Warnings are listed only in
// verbose mode; the counts always appear.
func (r *Renderer) RenderSummary(result *ConvertResult, verbose bool) {
	s := result.Stats

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Source:    %s\n", result.Source)
	if result.Document.IsErrorDocument() {
		fmt.Fprintf(os.Stderr, "Result:    %s\n", result.Document.Name)
	} else {
		fmt.Fprintf(os.Stderr, "Root:      %s (%s)\n", result.Document.Name, result.Document.ID)
	}
	fmt.Fprintf(os.Stderr, "People:    %d (from %d rows)\n", s.People, s.Rows)
	fmt.Fprintf(os.Stderr, "Links:     %d fathers, %d mothers\n", s.Fathers, s.Mothers)
	if s.DanglingRefs > 0 || s.CyclesBroken > 0 {
		fmt.Fprintf(os.Stderr, "Degraded:  %d dangling refs, %d cycles broken\n", s.DanglingRefs, s.CyclesBroken)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stderr, "Warnings:  %d\n", len(result.Warnings))
		if verbose {
			for _, w := range result.Warnings {
				fmt.Fprintf(os.Stderr, "  - %s\n", w)
			}
		}
	}
	fmt.Fprintf(os.Stderr, "\n")
}
