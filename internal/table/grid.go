package table

import (
	"fmt"
	"strings"

	"github.com/avolkov/ancestree/internal/extract"
	"github.com/avolkov/ancestree/internal/model"
)

// gridPos addresses one cell of the input grid
type gridPos struct {
	row, col int
}

// BuildGrid builds the person table from the untagged grid form using
// positional inference: the cell at (r, c+1) is the father of (r, c), and the
// mother is found on the first row below whose content starts exactly at
// column c+1 (the row continues the father's lineage as his spouse).
//
// Mother links are a best-effort heuristic over sheet indentation; they are
// tagged LinkPositional so consumers can tell them from explicit links.
func BuildGrid(rows [][]string) *Result {
	res := &Result{People: make(model.Table)}
	res.Stats.Rows = len(rows)

	// Pass 1: materialize a person for every non-blank, non-placeholder cell.
	// Ids embed row and column so repeated names stay distinct records.
	occupied := make(map[gridPos]string)
	maxCols := 0
	for r, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
		for c, text := range row {
			if extract.IsBlank(text) {
				continue
			}
			cell := extract.PersonCell(text)
			if cell.Placeholder {
				continue
			}
			id := fmt.Sprintf("%s_%d_%d", cell.Raw, r, c)
			res.People[id] = &model.PersonRecord{
				ID:            id,
				Name:          cell.Name,
				OriginCountry: cell.Origin,
				YearInfo:      cell.YearInfo,
				RawText:       cell.Raw,
			}
			occupied[gridPos{r, c}] = id
			res.Order = append(res.Order, id)
		}
	}
	res.Stats.People = len(res.People)

	// Pass 2: resolve parent links from cell adjacency
	for r := range rows {
		for c := 0; c < maxCols; c++ {
			childID, ok := occupied[gridPos{r, c}]
			if !ok {
				continue
			}
			child := res.People[childID]

			if c+1 >= maxCols {
				continue
			}
			fatherID, ok := occupied[gridPos{r, c + 1}]
			if !ok {
				continue
			}
			child.ParentA = fatherID
			res.Stats.Fathers++

			// The mother continues the father's line: scan rows below for the
			// first one whose child slot holds no person and whose content
			// starts exactly at column c+1. First such row wins, whether or
			// not it actually holds a usable mother cell (a placeholder
			// there still ends the scan).
			for r2 := r + 1; r2 < len(rows); r2++ {
				if _, taken := occupied[gridPos{r2, c}]; taken {
					continue
				}
				if !blankThrough(rows[r2], c) {
					continue
				}
				if strings.TrimSpace(field(rows[r2], c+1)) == "" {
					continue
				}
				if motherID, ok := occupied[gridPos{r2, c + 1}]; ok {
					child.ParentB = motherID
					child.ParentBLink = model.LinkPositional
					res.Stats.Mothers++
				}
				break
			}
		}
	}

	return res
}

// blankThrough reports whether every cell of the row at columns 0..c
// inclusive is blank (the row's content starts at c+1 or later)
func blankThrough(row []string, c int) bool {
	for i := 0; i <= c; i++ {
		if i >= len(row) {
			return true
		}
		if strings.TrimSpace(row[i]) != "" {
			return false
		}
	}
	return true
}
