package index

import (
	"sort"
	"strings"

	"github.com/reelrank/reelrank/internal/catalog"
	"github.com/reelrank/reelrank/internal/textnorm"
)

// TitleIndex maps titles to catalog handles, in both normalized and
// exact case-insensitive forms. Built once, read-only afterward.
type TitleIndex struct {
	// originals maps a normalized title to the original title strings
	// that collapse to it, in catalog order. Near-duplicate titles
	// differing only in case or punctuation share one key.
	originals map[string][]string

	// byLower maps the lowercased exact title to the first handle with
	// that title, for the exact-lookup path that bypasses correction.
	byLower map[string]int

	// normKeys is the sorted list of normalized titles, the candidate
	// list fuzzy correction scores against.
	normKeys []string
}

// BuildTitles constructs the title index from the catalog.
func BuildTitles(cat *catalog.Catalog) *TitleIndex {
	ti := &TitleIndex{
		originals: make(map[string][]string),
		byLower:   make(map[string]int),
	}

	for handle, m := range cat.Movies() {
		norm := textnorm.Normalize(m.Title)
		if norm != "" {
			ti.originals[norm] = append(ti.originals[norm], m.Title)
		}

		lower := strings.ToLower(m.Title)
		if _, ok := ti.byLower[lower]; !ok {
			ti.byLower[lower] = handle
		}
	}

	ti.normKeys = make([]string, 0, len(ti.originals))
	for k := range ti.originals {
		ti.normKeys = append(ti.normKeys, k)
	}
	sort.Strings(ti.normKeys)

	return ti
}

// NormalizedTitles returns the sorted normalized title keys.
func (ti *TitleIndex) NormalizedTitles() []string {
	return ti.normKeys
}

// Originals returns the original titles that normalize to key, in
// catalog order, or nil if key is not indexed.
func (ti *TitleIndex) Originals(key string) []string {
	return ti.originals[key]
}

// Lookup finds the handle for an exact case-insensitive title match.
func (ti *TitleIndex) Lookup(title string) (int, bool) {
	handle, ok := ti.byLower[strings.ToLower(title)]
	return handle, ok
}
