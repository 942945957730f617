package tree

import (
	"fmt"

	"github.com/avolkov/ancestree/internal/model"
)

// Materializer walks from a root person outward through parent links and
// produces the nested output document. Ancestors become "children" in the
// output hierarchy.
//
// Every id is in one of three states: unvisited, in-progress (on the active
// recursion path), or completed (memoized). An ancestor reached through
// multiple lineage paths is built once and reused by reference; an id already
// on the active path yields a terminal loop-marker node instead of recursing.
type Materializer struct {
	people     model.Table
	memo       map[string]*model.TreeNode
	inProgress map[string]bool

	cyclesBroken int
	warnings     []string
}

// NewMaterializer creates a materializer over the given person table. The
// node memo is scoped to this instance; allocate a fresh one per run.
func NewMaterializer(people model.Table) *Materializer {
	return &Materializer{
		people:     people,
		memo:       make(map[string]*model.TreeNode),
		inProgress: make(map[string]bool),
	}
}

// Build materializes the ancestor tree rooted at the given id. Unknown ids
// return nil (the caller treats them as absent parents).
func (m *Materializer) Build(id string) *model.TreeNode {
	rec, ok := m.people.Lookup(id)
	if !ok {
		if id != "" {
			m.warnings = append(m.warnings, fmt.Sprintf("person %q not found during tree build", id))
		}
		return nil
	}

	// Cycle: emit a terminal marker instead of recursing
	if m.inProgress[id] {
		m.cyclesBroken++
		m.warnings = append(m.warnings, fmt.Sprintf("circular parent reference at %q, emitting loop marker", id))
		return &model.TreeNode{
			Name:            "LOOP: " + rec.Name,
			ID:              rec.ID,
			Details:         details(rec),
			CountryOfOrigin: rec.OriginCountry,
			Children:        []*model.TreeNode{},
		}
	}

	if node, done := m.memo[id]; done {
		return node
	}

	node := &model.TreeNode{
		Name:            rec.Name,
		ID:              rec.ID,
		Details:         details(rec),
		CountryOfOrigin: rec.OriginCountry,
		OriginMix:       rec.OriginMix,
		Children:        []*model.TreeNode{},
	}

	m.inProgress[id] = true

	// Fixed order: the paternal slot always precedes the maternal slot, so
	// visualization layout stays stable across runs
	if rec.ParentA != "" {
		if father := m.Build(rec.ParentA); father != nil {
			node.Children = append(node.Children, father)
		}
	}
	if rec.ParentB != "" {
		if mother := m.Build(rec.ParentB); mother != nil {
			node.Children = append(node.Children, mother)
		}
	}

	delete(m.inProgress, id)
	m.memo[id] = node
	return node
}

// CyclesBroken returns how many loop markers were emitted
func (m *Materializer) CyclesBroken() int {
	return m.cyclesBroken
}

// Warnings returns the non-fatal diagnostics accumulated so far
func (m *Materializer) Warnings() []string {
	return m.warnings
}

func details(rec *model.PersonRecord) model.NodeDetails {
	return model.NodeDetails{
		CountryOfOrigin: rec.OriginCountry,
		YearInfo:        rec.YearInfo,
		Raw:             rec.RawText,
		OriginBreakdown: rec.OriginMix,
	}
}
