package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
)

func rank(n int) *int { return &n }

func headwords(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Headword
	}
	return out
}

func testEntries() []Entry {
	return []Entry{
		{ID: 0, Headword: "я\u0301блуко", PartOfSpeech: "noun", Frequency: rank(900)},
		{ID: 1, Headword: "кіт", PartOfSpeech: "noun", Frequency: rank(5)},
		{ID: 2, Headword: "ґанок", PartOfSpeech: "noun"},
		{ID: 3, Headword: "гора", PartOfSpeech: "noun", Frequency: rank(5)},
		{ID: 4, Headword: "бігти", PartOfSpeech: "verb", Forms: Forms{"infinitive": "бігти"}},
	}
}

func TestStoreFreqView(t *testing.T) {
	s := NewStore(testEntries())

	// equal ranks keep load order, missing ranks go last in load order
	assert.Equal(t, []string{"кіт", "гора", "я\u0301блуко", "ґанок", "бігти"}, headwords(s.View(collate.OrderFreq)))
	assert.Equal(t, s.View(collate.OrderFreq), s.View(""))
}

func TestStoreAlphaViews(t *testing.T) {
	s := NewStore(testEntries())

	alpha := headwords(s.View(collate.OrderAlpha))
	assert.Equal(t, []string{"бігти", "гора", "ґанок", "кіт", "я\u0301блуко"}, alpha)

	rev := headwords(s.View(collate.OrderAlphaRev))
	require.Len(t, rev, len(alpha))
	for i := range alpha {
		assert.Equal(t, alpha[len(alpha)-1-i], rev[i])
	}
}

func TestStoreLookupAndPartsOfSpeech(t *testing.T) {
	s := NewStore(testEntries())

	e, ok := s.Get(4)
	require.True(t, ok)
	assert.Equal(t, "бігти", e.Headword)
	assert.Equal(t, FormsVerb, e.FormsKind)

	_, ok = s.Get(99)
	assert.False(t, ok)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []string{"noun", "verb"}, s.PartsOfSpeech())
	assert.True(t, s.HasPartOfSpeech("verb"))
	assert.False(t, s.HasPartOfSpeech("adverb"))
}

func TestStoreDoesNotAliasInput(t *testing.T) {
	entries := testEntries()
	s := NewStore(entries)
	entries[1].Headword = "changed"

	e, _ := s.Get(1)
	assert.Equal(t, "кіт", e.Headword)
}
