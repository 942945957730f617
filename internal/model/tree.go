package model

// TreeNode is one node of the output document. Ancestors of the root appear
// as "children" in the D3 sense: the hierarchy grows outward from the root
// person toward earlier generations.
//
// Field names are fixed by downstream visualization consumers; do not rename
// the JSON tags.
type TreeNode struct {
	Name            string             `json:"name"`
	ID              string             `json:"id"`
	Details         NodeDetails        `json:"details"`
	CountryOfOrigin string             `json:"countryOfOrigin,omitempty"`
	OriginMix       map[string]float64 `json:"originMix,omitempty"`
	Children        []*TreeNode        `json:"children"`
}

// NodeDetails carries the parsed attributes of the underlying person record
type NodeDetails struct {
	CountryOfOrigin string             `json:"countryOfOrigin,omitempty"`
	YearInfo        string             `json:"yearInfo,omitempty"`
	Raw             string             `json:"raw,omitempty"`
	OriginBreakdown map[string]float64 `json:"originBreakdown,omitempty"`
}

// ErrorDocument returns a well-formed single-node document signaling a soft
// failure (no resolvable root, or zero parsed individuals). Callers observe
// failure via the node content, not via an error return.
func ErrorDocument(reason string) *TreeNode {
	return &TreeNode{
		Name:     "Error: " + reason,
		ID:       "error_root",
		Children: []*TreeNode{},
	}
}

// IsErrorDocument reports whether the node is a soft-failure document
func (n *TreeNode) IsErrorDocument() bool {
	return n != nil && n.ID == "error_root"
}

// Stats summarizes one conversion run for diagnostics
type Stats struct {
	Rows         int `json:"rows"`          // Input rows consumed
	People       int `json:"people"`        // Person records materialized
	Fathers      int `json:"fathers"`       // ParentA links resolved
	Mothers      int `json:"mothers"`       // ParentB links resolved
	DanglingRefs int `json:"dangling_refs"` // Parent ids with no matching record
	CyclesBroken int `json:"cycles_broken"` // Loop markers emitted during materialization
}
