package tree

import (
	"sort"
	"strings"

	"github.com/avolkov/ancestree/internal/model"
)

// FindRoot selects the individual the tree is anchored at. Preference order:
//
//  1. the unique record whose raw text (or cleaned name) equals the root
//     token, case-insensitively ("Me" in the source sheets);
//  2. among multiple token matches, the one with the lowest sort-order id;
//  3. with no match at all, the record with the lowest sort-order id.
//
// All three rules are deterministic: the same input always yields the same
// root. Returns false only when the table is empty.
func FindRoot(people model.Table, token string) (string, bool) {
	if len(people) == 0 {
		return "", false
	}
	if token == "" {
		token = "me"
	}

	var matches []string
	for id, rec := range people {
		if strings.EqualFold(rec.RawText, token) || strings.EqualFold(rec.Name, token) {
			matches = append(matches, id)
		}
	}
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches[0], true
	}

	ids := make([]string, 0, len(people))
	for id := range people {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0], true
}
