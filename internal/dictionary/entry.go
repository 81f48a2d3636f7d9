// Package dictionary holds the immutable, in-memory dictionary: entries,
// their grammatical forms and the pre-sorted views the lookup pipeline reads.
package dictionary

import (
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
)

// Entry is one headword with its definitions, grammatical data and
// frequency. Entries are never modified after the Store is built.
type Entry struct {
	ID           int      `json:"index"`
	Headword     string   `json:"word"`
	PartOfSpeech string   `json:"pos"`
	Info         string   `json:"info,omitempty"`
	Definitions  []string `json:"defs"`
	// Frequency is a frequency rank: lower is more common. Nil when the
	// source corpus has no rank for the word.
	Frequency *int      `json:"freq"`
	Forms     Forms     `json:"forms,omitempty"`
	FormsKind FormsKind `json:"formsKind,omitempty"`
}

// HasFrequency reports whether the entry carries a frequency rank.
func (e *Entry) HasFrequency() bool {
	return e.Frequency != nil
}

// Dictionary bundles the three loaded artifacts.
type Dictionary struct {
	Store   *Store
	Terms   *index.TermIndex
	Letters *index.LetterIndex
}

// New assembles a Dictionary, building the store views from entries.
func New(entries []Entry, terms *index.TermIndex, letters *index.LetterIndex) *Dictionary {
	return &Dictionary{
		Store:   NewStore(entries),
		Terms:   terms,
		Letters: letters,
	}
}
