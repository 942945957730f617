package table

import "testing"

func TestRows_CSV(t *testing.T) {
	data := []byte("Me,Dad,\"Mary Duggan (Ireland, 1881)\"\n,,Stephen\n")
	rows, err := Rows(data, FormatAuto)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "Mary Duggan (Ireland, 1881)" {
		t.Errorf("Quoted cell = %q, want the unquoted text", rows[0][2])
	}
}

func TestRows_TSVSniffed(t *testing.T) {
	data := []byte("Me\tDad\tMary Duggan (Ireland, 1881)\n\t\tStephen\n")
	rows, err := Rows(data, FormatAuto)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows[0]) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(rows[0]))
	}
	if rows[0][2] != "Mary Duggan (Ireland, 1881)" {
		t.Errorf("Cell = %q, want the full comma-bearing text", rows[0][2])
	}
}

func TestRows_RaggedRowsTolerated(t *testing.T) {
	data := []byte("a,b,c\nd\n")
	rows, err := Rows(data, FormatCSV)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 || len(rows[1]) != 1 {
		t.Errorf("Expected ragged rows to survive, got %v", rows)
	}
}

func TestRows_HTMLSniffed(t *testing.T) {
	data := []byte(`<html><body><table>
		<tr><td>Me</td><td>Dad</td></tr>
		<tr><td></td><td>Mom</td></tr>
	</table></body></html>`)
	rows, err := Rows(data, FormatAuto)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Me" || rows[1][1] != "Mom" {
		t.Errorf("Unexpected cells: %v", rows)
	}
}

func TestRowsFromHTML_NoTable(t *testing.T) {
	if _, err := RowsFromHTML("<html><body><p>nothing</p></body></html>"); err == nil {
		t.Error("Expected error for document without a table")
	}
}

func TestRows_UnknownFormat(t *testing.T) {
	if _, err := Rows([]byte("x"), Format("xlsx")); err == nil {
		t.Error("Expected error for unknown format")
	}
}
