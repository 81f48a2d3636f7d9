// Package resolver turns a parsed query into the set of entry ids that
// satisfy every one of its terms. Each term is shortlisted through the letter
// index, confirmed against canonical forms, and the per-term entry sets are
// intersected.
package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/normalize"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/parser"
)

// MatchMode is the comparison applied between a query term and a canonical
// form.
type MatchMode int

const (
	// MatchExact requires equality. Used for literal phrase words.
	MatchExact MatchMode = iota
	// MatchPrefix requires the canonical form to start with the term.
	MatchPrefix
	// MatchSubstring accepts the term anywhere in the canonical form.
	MatchSubstring
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchSubstring:
		return "substring"
	}
	return "unknown"
}

func (m MatchMode) matches(canonical, term string) bool {
	switch m {
	case MatchExact:
		return canonical == term
	case MatchPrefix:
		return strings.HasPrefix(canonical, term)
	case MatchSubstring:
		return strings.Contains(canonical, term)
	}
	return false
}

// Resolver is safe for concurrent use; it only reads the indexes.
type Resolver struct {
	terms             *index.TermIndex
	letters           *index.LetterIndex
	substringMaxRunes int
}

// New returns a Resolver. substringMaxRunes bounds the length of a lone
// fuzzy word that may match anywhere inside a term; values below 1 are
// treated as 1.
func New(terms *index.TermIndex, letters *index.LetterIndex, substringMaxRunes int) *Resolver {
	if substringMaxRunes < 1 {
		substringMaxRunes = 1
	}
	return &Resolver{
		terms:             terms,
		letters:           letters,
		substringMaxRunes: substringMaxRunes,
	}
}

// CanInclude reports whether the query's fuzzy word may match as a
// substring: the query must have exactly one fuzzy word, made only of
// Ukrainian letters and no longer than the configured rune limit.
func (r *Resolver) CanInclude(q *parser.Query) bool {
	if len(q.FuzzyWords) != 1 {
		return false
	}
	w := q.FuzzyWords[0]
	return normalize.IsSourceWord(w) && utf8.RuneCountInString(w) <= r.substringMaxRunes
}

// Resolve returns the entry ids matching every fuzzy word and every literal
// phrase word of q. The boolean is false when q contributes no terms, in
// which case the caller must not restrict its results.
func (r *Resolver) Resolve(q *parser.Query) (index.IDSet, bool) {
	fuzzyMode := MatchPrefix
	if r.CanInclude(q) {
		fuzzyMode = MatchSubstring
	}

	var acc index.IDSet
	restricted := false
	apply := func(word string, mode MatchMode) {
		if word == "" {
			return
		}
		matched := r.Match(word, mode)
		if !restricted {
			acc, restricted = matched, true
			return
		}
		acc = index.Intersect(acc, matched)
	}
	for _, w := range q.FuzzyWords {
		apply(w, fuzzyMode)
	}
	for _, w := range q.LiteralWords() {
		apply(w, MatchExact)
	}
	if !restricted {
		return nil, false
	}
	return acc, true
}

// Match returns the union of the entry ids of every term whose canonical
// form matches word under mode. word must already be canonical.
func (r *Resolver) Match(word string, mode MatchMode) index.IDSet {
	shortlist := r.letters.Candidates(word)
	if len(shortlist) == 0 {
		return index.IDSet{}
	}
	var sets []index.IDSet
	for id := range shortlist {
		term, ok := r.terms.Lookup(id)
		if !ok {
			continue
		}
		if mode.matches(term.Canonical, word) {
			sets = append(sets, term.Entries)
		}
	}
	return index.Union(sets...)
}
