// Package indexer builds the term and letter indexes from an entry
// collection. The lookup engine never calls it at query time; it backs the
// dictctl index command and the test fixtures.
package indexer

import (
	"log/slog"
	"sort"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/indexer/tokenizer"
)

// Stats summarises a build.
type Stats struct {
	Entries  int
	Terms    int
	Letters  int
	Duration time.Duration
}

// Builder accumulates postings before assigning term ids.
type Builder struct {
	postings map[string]index.IDSet
	entries  int
	logger   *slog.Logger
}

func NewBuilder() *Builder {
	return &Builder{
		postings: make(map[string]index.IDSet),
		logger:   slog.Default().With("component", "indexer"),
	}
}

// Add indexes the headword, every form and every definition of e.
func (b *Builder) Add(e dictionary.Entry) {
	b.entries++
	b.addText(e.ID, e.Headword)
	for _, form := range e.Forms.Flatten() {
		b.addText(e.ID, form)
	}
	for _, def := range e.Definitions {
		b.addText(e.ID, def)
	}
}

func (b *Builder) addText(id int, text string) {
	for _, term := range tokenizer.Terms(text) {
		set, ok := b.postings[term]
		if !ok {
			set = make(index.IDSet)
			b.postings[term] = set
		}
		set[id] = struct{}{}
	}
}

// Build assigns term ids in sorted term order and derives the letter index,
// so the output is deterministic for a given input.
func (b *Builder) Build() (*index.TermIndex, *index.LetterIndex, Stats) {
	start := time.Now()
	words := make([]string, 0, len(b.postings))
	for w := range b.postings {
		words = append(words, w)
	}
	sort.Strings(words)

	terms := make(map[int]index.Term, len(words))
	letters := make(map[rune]index.IDSet)
	for id, w := range words {
		terms[id] = index.Term{Canonical: w, Entries: b.postings[w]}
		for _, r := range w {
			set, ok := letters[r]
			if !ok {
				set = make(index.IDSet)
				letters[r] = set
			}
			set[id] = struct{}{}
		}
	}
	stats := Stats{
		Entries:  b.entries,
		Terms:    len(terms),
		Letters:  len(letters),
		Duration: time.Since(start),
	}
	b.logger.Info("indexes built",
		"entries", stats.Entries,
		"terms", stats.Terms,
		"letters", stats.Letters,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return index.NewTermIndex(terms), index.NewLetterIndex(letters), stats
}

// Build indexes entries in one call.
func Build(entries []dictionary.Entry) (*index.TermIndex, *index.LetterIndex, Stats) {
	b := NewBuilder()
	for _, e := range entries {
		b.Add(e)
	}
	return b.Build()
}
