package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
)

func termByCanonical(t *testing.T, terms *index.TermIndex, canonical string) index.Term {
	t.Helper()
	var found *index.Term
	terms.Each(func(_ int, term index.Term) {
		if term.Canonical == canonical {
			tc := term
			found = &tc
		}
	})
	require.NotNil(t, found, "term %q not indexed", canonical)
	return *found
}

func TestBuild(t *testing.T) {
	entries := []dictionary.Entry{
		{ID: 1, Headword: "кіт", Definitions: []string{"cat", "tomcat (male)"},
			Forms: dictionary.Forms{"singular": map[string]any{"genitive": "кота\u0301"}}},
		{ID: 2, Headword: "ї\u0301жак", Definitions: []string{"hedgehog"}},
	}
	terms, letters, stats := Build(entries)

	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, terms.Len(), stats.Terms)
	assert.Equal(t, []int{1}, termByCanonical(t, terms, "tomcat").Entries.Sorted())
	assert.Equal(t, []int{1}, termByCanonical(t, terms, "кота").Entries.Sorted())
	assert.Equal(t, []int{2}, termByCanonical(t, terms, "іжак").Entries.Sorted())

	// "male" sits inside parentheses
	terms.Each(func(_ int, term index.Term) {
		assert.NotEqual(t, "male", term.Canonical)
	})

	assert.Empty(t, index.CheckLetterInvariant(terms, letters))
	assert.Nil(t, letters.Terms('ї'))
}

func TestBuildIsDeterministic(t *testing.T) {
	entries := []dictionary.Entry{
		{ID: 1, Headword: "кіт", Definitions: []string{"cat"}},
		{ID: 2, Headword: "кит", Definitions: []string{"whale"}},
	}
	a, _, _ := Build(entries)
	b, _, _ := Build(entries)

	for id := 0; id < a.Len(); id++ {
		ta, _ := a.Lookup(id)
		tb, _ := b.Lookup(id)
		assert.Equal(t, ta.Canonical, tb.Canonical)
	}
}
