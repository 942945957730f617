package extract

import (
	"regexp"
	"strings"
)

// Cell holds the structured fields parsed from one person cell
type Cell struct {
	Name        string // Display name, trailing separators stripped
	Origin      string // Country phrase, empty if the cell states none
	YearInfo    string // Verbatim year token ("1881", "<1896", "1841-1880", "1635- ")
	Raw         string // Trimmed original text
	Placeholder bool   // Cell was an unknown-parent / error token
}

// Placeholder tokens the sheet uses for unknown parents and formula errors
var placeholderTokens = map[string]bool{
	"mother?": true,
	"father?": true,
	"#error!": true,
}

// cellPattern matches "Name (Origin, YearInfo)" and its looser variants:
//
//	"Mary Duggan (Ireland, 1881)"
//	"Stephen J Duggan, (Ireland)"
//	"Michael Burns (Ireland, 1841-1880)"
//	"Gov. William Bradford (England 1620 *Mayflower)"
//	"William Furbish (Scotland 1635- )"
//
// Origin is a non-numeric phrase; the year token allows digits, '<', '>', '-',
// an optional dash-joined second group, and optional trailing text introduced
// by '*'. The closing paren must end the string.
var cellPattern = regexp.MustCompile(`^(.*?)\s*\(([^,()0-9]+(?:[^,()0-9]+\s)*?)?(?:,\s*|\s+)?([\d<>-]+(?:\s*-\s*[\d<>-]+)?(?:\s*\*.*?)?)?\s*\)$`)

// yearTail recovers a year token that got absorbed into the origin phrase
// when no comma separated them (4+ digits, optional dash range, at the end)
var yearTail = regexp.MustCompile(`([\d<>-]{4,}(\s*-\s*[\d<>-]*)?)$`)

// PersonCell parses one free-text person cell into structured fields.
// It is a pure function: no external state, no side effects.
func PersonCell(text string) Cell {
	trimmed := strings.TrimSpace(text)

	if placeholderTokens[strings.ToLower(trimmed)] {
		return Cell{Name: trimmed, Raw: trimmed, Placeholder: true}
	}

	cell := Cell{Raw: trimmed}

	if m := cellPattern.FindStringSubmatch(trimmed); m != nil {
		cell.Name = strings.TrimSpace(m[1])
		cell.Origin = strings.TrimSpace(m[2])
		cell.YearInfo = strings.TrimSpace(m[3])

		// Without a comma the year can end up inside the origin group
		if cell.Origin != "" && cell.YearInfo == "" {
			if ym := yearTail.FindStringSubmatch(cell.Origin); ym != nil {
				cell.YearInfo = strings.TrimSpace(ym[1])
				cell.Origin = strings.TrimSpace(strings.ReplaceAll(cell.Origin, cell.YearInfo, ""))
			}
		}

		// "Native American" is an ethnicity label, not birthplace+year
		if strings.EqualFold(cell.Origin, "native american") {
			cell.YearInfo = ""
		}
	} else {
		// No parenthesized suffix (or malformed parens): whole text is the name
		cell.Name = trimmed
	}

	cell.Name = strings.TrimRight(strings.TrimSpace(cell.Name), ",")
	cell.Name = strings.TrimSpace(cell.Name)

	return cell
}

// IsBlank reports whether the raw cell text holds no person at all
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
