// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import "github.com/pdiddy/get-papers-list/pkg/types"

// Accumulator collects retained papers in the order they are added, up to
// a fixed cap. IsSatisfied is the single termination rule for a fetch.
type Accumulator struct {
	limit  int
	papers []types.Paper
	seen   map[string]bool
}

// NewAccumulator returns an Accumulator that holds at most limit papers.
// A non-positive limit is satisfied immediately.
func NewAccumulator(limit int) *Accumulator {
	if limit < 0 {
		limit = 0
	}
	return &Accumulator{limit: limit, seen: make(map[string]bool)}
}

// Add appends p unless the cap is reached or p's PMID was already added.
// It reports whether p was kept.
func (a *Accumulator) Add(p types.Paper) bool {
	if a.IsSatisfied() || a.seen[p.PMID] {
		return false
	}
	a.seen[p.PMID] = true
	a.papers = append(a.papers, p)
	return true
}

// IsSatisfied reports whether the cap has been reached.
func (a *Accumulator) IsSatisfied() bool {
	return len(a.papers) >= a.limit
}

// Len returns the number of papers held.
func (a *Accumulator) Len() int { return len(a.papers) }

// Papers returns a copy of the collected papers in insertion order.
func (a *Accumulator) Papers() []types.Paper {
	out := make([]types.Paper, len(a.papers))
	copy(out, a.papers)
	return out
}
