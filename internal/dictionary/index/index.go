// Package index models the two prebuilt lookup indexes as immutable maps of
// sets: the term index (term id -> canonical form and entry ids) and the
// letter index (letter -> term ids whose canonical form contains it).
package index

import (
	"sort"
)

// IDSet is a set of integer identifiers. A nil IDSet is empty.
type IDSet map[int]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Intersect returns a new set holding the members present in both a and b.
// An empty operand short-circuits to an empty result.
func Intersect(a, b IDSet) IDSet {
	if len(a) == 0 || len(b) == 0 {
		return IDSet{}
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(IDSet, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Union returns a new set holding the members of every input.
func Union(sets ...IDSet) IDSet {
	size := 0
	for _, s := range sets {
		size += len(s)
	}
	out := make(IDSet, size)
	for _, s := range sets {
		for id := range s {
			out[id] = struct{}{}
		}
	}
	return out
}

// Term is one term index record.
type Term struct {
	Canonical string
	Entries   IDSet
}

// TermIndex maps a term id to its canonical form and entry ids.
type TermIndex struct {
	terms map[int]Term
}

// NewTermIndex wraps terms. The map is owned by the index afterwards.
func NewTermIndex(terms map[int]Term) *TermIndex {
	if terms == nil {
		terms = make(map[int]Term)
	}
	return &TermIndex{terms: terms}
}

// Lookup returns the term with the given id.
func (t *TermIndex) Lookup(id int) (Term, bool) {
	term, ok := t.terms[id]
	return term, ok
}

// Len returns the number of terms.
func (t *TermIndex) Len() int {
	return len(t.terms)
}

// Each calls fn for every term in ascending id order.
func (t *TermIndex) Each(fn func(id int, term Term)) {
	ids := make([]int, 0, len(t.terms))
	for id := range t.terms {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(id, t.terms[id])
	}
}

// LetterIndex maps a single normalised letter to the ids of the terms whose
// canonical form contains it.
type LetterIndex struct {
	letters map[rune]IDSet
}

// NewLetterIndex wraps letters. The map is owned by the index afterwards.
func NewLetterIndex(letters map[rune]IDSet) *LetterIndex {
	if letters == nil {
		letters = make(map[rune]IDSet)
	}
	return &LetterIndex{letters: letters}
}

// Terms returns the term ids filed under letter, or nil.
func (l *LetterIndex) Terms(letter rune) IDSet {
	return l.letters[letter]
}

// Len returns the number of letters.
func (l *LetterIndex) Len() int {
	return len(l.letters)
}

// Letters returns the indexed letters in ascending order.
func (l *LetterIndex) Letters() []rune {
	out := make([]rune, 0, len(l.letters))
	for r := range l.letters {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Candidates returns the ids of terms whose canonical form contains every
// distinct letter of word. It is a necessary condition for any match and is
// used only to shrink the pool before string comparison. A letter missing
// from the index, or an empty word, yields an empty set.
func (l *LetterIndex) Candidates(word string) IDSet {
	var acc IDSet
	seen := make(map[rune]struct{}, len(word))
	for _, r := range word {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		terms := l.letters[r]
		if len(terms) == 0 {
			return IDSet{}
		}
		if acc == nil {
			acc = Union(terms)
			continue
		}
		acc = Intersect(acc, terms)
		if len(acc) == 0 {
			return acc
		}
	}
	if acc == nil {
		return IDSet{}
	}
	return acc
}

// Violation reports a term missing from the letter index under one of its
// letters.
type Violation struct {
	TermID int
	Letter rune
}

// CheckLetterInvariant verifies that every term appears under each distinct
// letter of its canonical form.
func CheckLetterInvariant(terms *TermIndex, letters *LetterIndex) []Violation {
	var out []Violation
	terms.Each(func(id int, term Term) {
		seen := make(map[rune]struct{})
		for _, r := range term.Canonical {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			if !letters.Terms(r).Has(id) {
				out = append(out, Violation{TermID: id, Letter: r})
			}
		}
	})
	return out
}
