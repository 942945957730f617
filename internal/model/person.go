package model

// LinkConfidence describes how a parent link was established
type LinkConfidence string

const (
	// LinkExplicit means the link came from a foreign-key column
	LinkExplicit LinkConfidence = "explicit"
	// LinkPositional means the link was inferred from grid adjacency (best-effort)
	LinkPositional LinkConfidence = "positional"
)

// PersonRecord represents one identified individual from the input sheet.
// Parent ids are weak references into the same table: they either resolve to
// an existing record or are empty, never a dangling id.
type PersonRecord struct {
	ID            string         `json:"id"`                      // Unique per occurrence (text+row+col for grid input)
	Name          string         `json:"name"`                    // Cleaned display name, trailing separators stripped
	OriginCountry string         `json:"origin,omitempty"`        // Stated country, if the cell carried one
	YearInfo      string         `json:"year_info,omitempty"`     // Verbatim year token ("1881", "<1896", "1635- ")
	RawText       string         `json:"raw_text"`                // Original cell text, kept for display/debugging
	ParentA       string         `json:"parent_a_id,omitempty"`   // Paternal-slot parent id
	ParentB       string         `json:"parent_b_id,omitempty"`   // Maternal-slot parent id
	ParentBLink   LinkConfidence `json:"parent_b_link,omitempty"` // How ParentB was established
	Placeholder   bool           `json:"placeholder,omitempty"`   // Stand-in for unknown parent / parse failure

	// OriginMix is the computed ancestral origin breakdown. Nil until the
	// resolver has run; weights sum to 1.0 within tolerance once set.
	OriginMix map[string]float64 `json:"origin_mix,omitempty"`
}

// HasOriginMix reports whether the mixture has been computed for this record
func (p *PersonRecord) HasOriginMix() bool {
	return p.OriginMix != nil
}

// Table is the flat person table keyed by record id
type Table map[string]*PersonRecord

// Lookup returns the record for id, treating empty and dangling ids as absent
func (t Table) Lookup(id string) (*PersonRecord, bool) {
	if id == "" {
		return nil, false
	}
	rec, ok := t[id]
	return rec, ok
}
