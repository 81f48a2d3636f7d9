package dictionary

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
)

// Store is the read-only entry collection with one pre-sorted view per sort
// order. Views are computed once at construction and shared by every lookup.
type Store struct {
	entries    []*Entry
	byID       map[int]*Entry
	byFreq     []*Entry
	byAlpha    []*Entry
	byAlphaRev []*Entry
	pos        []string
	posSet     map[string]struct{}
}

// NewStore copies entries, classifies their forms and builds the sort views.
func NewStore(entries []Entry) *Store {
	s := &Store{
		entries: make([]*Entry, len(entries)),
		byID:    make(map[int]*Entry, len(entries)),
		posSet:  make(map[string]struct{}),
	}
	for i := range entries {
		e := entries[i]
		if e.FormsKind == "" {
			e.FormsKind = ClassifyForms(e.Forms)
		}
		s.entries[i] = &e
		s.byID[e.ID] = &e
		if _, ok := s.posSet[e.PartOfSpeech]; !ok && e.PartOfSpeech != "" {
			s.posSet[e.PartOfSpeech] = struct{}{}
			s.pos = append(s.pos, e.PartOfSpeech)
		}
	}
	sort.Strings(s.pos)

	s.byFreq = append([]*Entry(nil), s.entries...)
	sort.SliceStable(s.byFreq, func(i, j int) bool {
		a, b := s.byFreq[i], s.byFreq[j]
		switch {
		case a.Frequency == nil:
			return false
		case b.Frequency == nil:
			return true
		}
		return *a.Frequency < *b.Frequency
	})

	keys := make(map[*Entry]string, len(s.entries))
	for _, e := range s.entries {
		keys[e] = collate.Key(e.Headword)
	}
	s.byAlpha = append([]*Entry(nil), s.entries...)
	sort.SliceStable(s.byAlpha, func(i, j int) bool {
		return keys[s.byAlpha[i]] < keys[s.byAlpha[j]]
	})

	s.byAlphaRev = make([]*Entry, len(s.byAlpha))
	for i, e := range s.byAlpha {
		s.byAlphaRev[len(s.byAlpha)-1-i] = e
	}
	return s
}

// View returns the entries in the given order. An empty order means freq.
// Callers must not modify the returned slice.
func (s *Store) View(order collate.Order) []*Entry {
	switch order {
	case collate.OrderAlpha:
		return s.byAlpha
	case collate.OrderAlphaRev:
		return s.byAlphaRev
	default:
		return s.byFreq
	}
}

// Get returns the entry with the given id.
func (s *Store) Get(id int) (*Entry, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the entries in load order.
func (s *Store) Entries() []*Entry {
	return s.entries
}

// PartsOfSpeech returns the distinct parts of speech, sorted.
func (s *Store) PartsOfSpeech() []string {
	return s.pos
}

// HasPartOfSpeech reports whether any entry has the given part of speech.
func (s *Store) HasPartOfSpeech(pos string) bool {
	_, ok := s.posSet[pos]
	return ok
}
