package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Format identifies the wire format of an input export
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatHTML Format = "html"
	FormatAuto Format = "auto"
)

// Rows decodes raw export bytes into grid rows. FormatAuto sniffs the
// content: a leading '<' means a published HTML table, a tab in the first
// line means TSV, anything else is CSV.
func Rows(data []byte, format Format) ([][]string, error) {
	if format == FormatAuto || format == "" {
		format = sniffFormat(data)
	}

	switch format {
	case FormatHTML:
		return RowsFromHTML(string(data))
	case FormatTSV:
		return rowsFromDelimited(data, '\t')
	case FormatCSV:
		return rowsFromDelimited(data, ',')
	default:
		return nil, fmt.Errorf("unknown input format: %s", format)
	}
}

func sniffFormat(data []byte) Format {
	head := strings.TrimSpace(string(firstBytes(data, 512)))
	if strings.HasPrefix(head, "<") {
		return FormatHTML
	}
	if line, _, _ := strings.Cut(head, "\n"); strings.ContainsRune(line, '\t') {
		return FormatTSV
	}
	return FormatCSV
}

func rowsFromDelimited(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1 // Exports often have ragged rows
	r.LazyQuotes = true    // Sheet exports contain stray quotes in names

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

func firstBytes(data []byte, n int) []byte {
	if len(data) < n {
		return data
	}
	return data[:n]
}
