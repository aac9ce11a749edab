// Package index builds the reverse entity and title indexes over the
// catalog. All indexes are derived deterministically at initialization
// by pure construction functions and are never mutated afterward, so
// concurrent readers need no locking.
package index

import (
	"sort"

	"github.com/reelrank/reelrank/internal/catalog"
	"github.com/reelrank/reelrank/internal/textnorm"
)

// Kind identifies which entity index a lookup targets.
type Kind string

const (
	KindActor    Kind = "actor"
	KindDirector Kind = "director"
	KindCompany  Kind = "company"
)

// MemberSet is a set of catalog handles referencing one entity name.
type MemberSet map[int]struct{}

// Contains reports whether the handle is a member.
func (s MemberSet) Contains(handle int) bool {
	_, ok := s[handle]
	return ok
}

// Handles returns the members in ascending handle order.
func (s MemberSet) Handles() []int {
	out := make([]int, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

// EntityIndex maps normalized entity names to their member sets.
// A name is a key iff at least one movie references it.
type EntityIndex map[string]MemberSet

// Names returns every indexed name, sorted for determinism.
func (ei EntityIndex) Names() []string {
	names := make([]string, 0, len(ei))
	for n := range ei {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// add registers one handle under the normalized form of name.
// Empty normalized forms are not indexable keys.
func (ei EntityIndex) add(name string, handle int) {
	key := textnorm.Normalize(name)
	if key == "" {
		return
	}
	set, ok := ei[key]
	if !ok {
		set = make(MemberSet)
		ei[key] = set
	}
	set[handle] = struct{}{}
}

// Entities bundles the three entity indexes built from a catalog.
type Entities struct {
	Actors    EntityIndex
	Directors EntityIndex
	Companies EntityIndex
}

// BuildEntities constructs the actor, director and company indexes in
// one pass over the catalog. The director is always indexed: a missing
// value was replaced by the placeholder at load, so "unknown" resolves.
func BuildEntities(cat *catalog.Catalog) *Entities {
	e := &Entities{
		Actors:    make(EntityIndex),
		Directors: make(EntityIndex),
		Companies: make(EntityIndex),
	}

	for handle, m := range cat.Movies() {
		for _, actor := range m.Cast {
			e.Actors.add(actor, handle)
		}
		e.Directors.add(m.Director, handle)
		for _, company := range m.Companies {
			e.Companies.add(company, handle)
		}
	}

	return e
}

// ByKind returns the index for the given entity kind, or nil for an
// unknown kind.
func (e *Entities) ByKind(kind Kind) EntityIndex {
	switch kind {
	case KindActor:
		return e.Actors
	case KindDirector:
		return e.Directors
	case KindCompany:
		return e.Companies
	default:
		return nil
	}
}

// Intersect resolves each normalized name against the index and
// intersects the member sets of those that resolve. Per the filter
// contract: a name with no index entry is skipped rather than treated
// as an empty set, but if no supplied name resolves at all the result
// is the empty set (not nil).
func (ei EntityIndex) Intersect(names []string) MemberSet {
	var sets []MemberSet
	for _, name := range names {
		if set, ok := ei[name]; ok {
			sets = append(sets, set)
		}
	}
	if len(sets) == 0 {
		return MemberSet{}
	}

	result := make(MemberSet, len(sets[0]))
	for h := range sets[0] {
		result[h] = struct{}{}
	}
	for _, set := range sets[1:] {
		for h := range result {
			if !set.Contains(h) {
				delete(result, h)
			}
		}
	}
	return result
}

// IntersectSets intersects two already-resolved member sets. A nil set
// means "no filter of this kind was supplied" and passes the other
// through unchanged.
func IntersectSets(a, b MemberSet) MemberSet {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	result := make(MemberSet)
	for h := range a {
		if b.Contains(h) {
			result[h] = struct{}{}
		}
	}
	return result
}
