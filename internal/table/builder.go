package table

import (
	"github.com/avolkov/ancestree/internal/model"
)

// Result is the output of either link-resolution strategy: the flat person
// table plus reading-order ids, run statistics, and non-fatal diagnostics.
type Result struct {
	People   model.Table
	Order    []string // Record ids in reading order (row-major), for deterministic fallbacks
	Stats    model.Stats
	Warnings []string
}

// Shape identifies which input form the rows are in
type Shape string

const (
	// ShapeGrid is the untagged 2-D grid form: column offset encodes lineage
	ShapeGrid Shape = "grid"
	// ShapeRecords is the header-tagged record form with explicit parent ids
	ShapeRecords Shape = "records"
)

// Build detects the input shape and runs the matching strategy. Both
// strategies produce the same PersonRecord contract, so everything
// downstream is shape-agnostic.
func Build(rows [][]string) *Result {
	if DetectShape(rows) == ShapeRecords {
		return BuildRecords(rows)
	}
	return BuildGrid(rows)
}
