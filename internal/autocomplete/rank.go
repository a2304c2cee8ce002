// Package autocomplete implements a ranked, keyboard-driven dropdown over a
// fixed list of named entries.
package autocomplete

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Entry is one selectable item. Code identifies it.
type Entry struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Match priorities, lower is better.
const (
	PriorityNamePrefix   = 1
	PriorityCodePrefix   = 2
	PriorityNameContains = 3
	PriorityCodeContains = 4
)

// Match is an entry that satisfied a query.
type Match struct {
	Entry    Entry `json:"entry"`
	Priority int   `json:"priority"`
}

// Ranker orders entries. It is not safe for concurrent use because the
// underlying collator keeps scratch buffers.
type Ranker struct {
	collator *collate.Collator
	fold     cases.Caser
}

// NewRanker returns a Ranker collating names by the rules of tag.
func NewRanker(tag language.Tag) *Ranker {
	return &Ranker{
		collator: collate.New(tag),
		fold:     cases.Fold(),
	}
}

// Normalize trims and case-folds a query.
func (r *Ranker) Normalize(query string) string {
	return r.fold.String(strings.TrimSpace(query))
}

// priority scores e against an already normalized query; 0 means no match.
func (r *Ranker) priority(e Entry, q string) int {
	name := r.fold.String(e.Name)
	code := r.fold.String(e.Code)
	switch {
	case strings.HasPrefix(name, q):
		return PriorityNamePrefix
	case strings.HasPrefix(code, q):
		return PriorityCodePrefix
	case strings.Contains(name, q):
		return PriorityNameContains
	case strings.Contains(code, q):
		return PriorityCodeContains
	}
	return 0
}

// Rank returns the entries matching query, best first. Ties are broken by
// collated name, then by code. An empty query matches nothing.
func (r *Ranker) Rank(entries []Entry, query string) []Match {
	q := r.Normalize(query)
	if q == "" {
		return nil
	}

	var matches []Match
	for _, e := range entries {
		if p := r.priority(e, q); p > 0 {
			matches = append(matches, Match{Entry: e, Priority: p})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority < matches[j].Priority
		}
		return r.less(matches[i].Entry, matches[j].Entry)
	})
	return matches
}

// Alphabetical returns a copy of entries sorted by collated name.
func (r *Ranker) Alphabetical(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return r.less(out[i], out[j])
	})
	return out
}

func (r *Ranker) less(a, b Entry) bool {
	if c := r.collator.CompareString(a.Name, b.Name); c != 0 {
		return c < 0
	}
	return a.Code < b.Code
}
