package table

import (
	"fmt"
	"strings"

	"github.com/avolkov/ancestree/internal/extract"
	"github.com/avolkov/ancestree/internal/model"
)

// Record-form header fields. Parent name columns are documentation only;
// the identifiers are authoritative for linking.
const (
	colID          = "id"
	colPerson      = "person"
	colParent1ID   = "parent1id"
	colParent1Name = "parent1name"
	colParent2ID   = "parent2id"
	colParent2Name = "parent2name"
)

// BuildRecords builds the person table from the header-tagged record form,
// where each row carries its own identifier and two optional parent ids.
// Dangling parent references are degraded to absent with a warning, never
// fatal.
func BuildRecords(rows [][]string) *Result {
	res := &Result{People: make(model.Table)}
	res.Stats.Rows = len(rows)

	headerIdx, cols := recordHeader(rows)
	if cols == nil {
		res.Warnings = append(res.Warnings, "record form: no header row found")
		return res
	}

	type link struct {
		child    string
		parent   string
		maternal bool
	}
	var links []link

	for r := headerIdx + 1; r < len(rows); r++ {
		row := rows[r]
		id := strings.TrimSpace(field(row, colIndex(cols, colID)))
		personText := field(row, colIndex(cols, colPerson))
		if id == "" || extract.IsBlank(personText) {
			if !rowBlank(row) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("record form: row %d skipped (missing id or person text)", r+1))
			}
			continue
		}

		cell := extract.PersonCell(personText)
		// Placeholder person text still materializes a name-only record so
		// explicit parent links into it stay structurally complete
		res.People[id] = &model.PersonRecord{
			ID:            id,
			Name:          cell.Name,
			OriginCountry: cell.Origin,
			YearInfo:      cell.YearInfo,
			RawText:       cell.Raw,
			Placeholder:   cell.Placeholder,
		}
		res.Order = append(res.Order, id)

		if p := strings.TrimSpace(field(row, colIndex(cols, colParent1ID))); p != "" {
			links = append(links, link{child: id, parent: p})
		}
		if p := strings.TrimSpace(field(row, colIndex(cols, colParent2ID))); p != "" {
			links = append(links, link{child: id, parent: p, maternal: true})
		}
	}
	res.Stats.People = len(res.People)

	// Second pass so forward references resolve regardless of row order
	for _, l := range links {
		if _, ok := res.People[l.parent]; !ok {
			res.Stats.DanglingRefs++
			res.Warnings = append(res.Warnings, fmt.Sprintf("record form: person %q references missing parent %q", l.child, l.parent))
			continue
		}
		child := res.People[l.child]
		if l.maternal {
			child.ParentB = l.parent
			child.ParentBLink = model.LinkExplicit
			res.Stats.Mothers++
		} else {
			child.ParentA = l.parent
			res.Stats.Fathers++
		}
	}

	return res
}

// DetectShape selects the link-resolution strategy: a leading header row
// carrying the record-form field names means explicit foreign keys,
// anything else is treated as the positional grid.
func DetectShape(rows [][]string) Shape {
	if _, cols := recordHeader(rows); cols != nil {
		return ShapeRecords
	}
	return ShapeGrid
}

// recordHeader finds the record-form header row and maps field names to
// column indexes. Only the id and person columns are mandatory.
func recordHeader(rows [][]string) (int, map[string]int) {
	for r, row := range rows {
		if rowBlank(row) {
			continue
		}
		cols := make(map[string]int)
		for c, name := range row {
			key := strings.ToLower(strings.TrimSpace(name))
			if key != "" {
				cols[key] = c
			}
		}
		_, hasID := cols[colID]
		_, hasPerson := cols[colPerson]
		if hasID && hasPerson {
			return r, cols
		}
		return -1, nil // First non-blank row decides
	}
	return -1, nil
}

// colIndex returns the index of a header field, -1 when the column is absent
func colIndex(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

// field returns row[idx], tolerating short rows and missing columns
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
