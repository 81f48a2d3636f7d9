// Package dictionarytest provides a small, fully indexed dictionary for
// tests across the module.
package dictionarytest

import (
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/indexer"
)

func rank(n int) *int { return &n }

// Entry ids of the fixture, for readable assertions.
const (
	Kit      = 1
	Whale    = 2
	Roll     = 3
	Hedgehog = 4
	House    = 5
	Big      = 6
	Cat      = 7
	Porch    = 8
	Cafe     = 9
	Hut      = 10
	BigHut   = 11
)

// Entries returns a fresh copy of the fixture entries.
func Entries() []dictionary.Entry {
	return []dictionary.Entry{
		{
			ID: Kit, Headword: "кіт", PartOfSpeech: "noun",
			Definitions: []string{"cat", "tomcat"}, Frequency: rank(5432),
			Forms: dictionary.Forms{
				"singular": map[string]any{"nominative": []any{"кіт"}, "genitive": []any{"кота\u0301"}},
				"plural":   map[string]any{"nominative": []any{"коти\u0301"}, "genitive": []any{"коті\u0301в"}},
			},
		},
		{
			ID: Whale, Headword: "кит", PartOfSpeech: "noun",
			Definitions: []string{"whale"}, Frequency: rank(3000),
			Forms: dictionary.Forms{
				"singular": map[string]any{"nominative": []any{"кит"}, "genitive": []any{"кита\u0301"}},
				"plural":   map[string]any{"nominative": []any{"кити\u0301"}},
			},
		},
		{
			ID: Roll, Headword: "коти\u0301ти", PartOfSpeech: "verb",
			Definitions: []string{"to roll"}, Frequency: rank(8000),
			Forms: dictionary.Forms{
				"infinitive": "коти\u0301ти",
				"present":    map[string]any{"1s": []any{"кочу\u0301"}, "3p": []any{"ко\u0301тять"}},
			},
		},
		{
			ID: Hedgehog, Headword: "ї\u0301жак", PartOfSpeech: "noun",
			Definitions: []string{"hedgehog"},
		},
		{
			ID: House, Headword: "ха\u0301та", PartOfSpeech: "noun",
			Definitions: []string{"house (peasant hut)", "home"}, Frequency: rank(900),
			Forms: dictionary.Forms{
				"singular": map[string]any{"nominative": []any{"ха\u0301та"}},
				"plural":   map[string]any{"nominative": []any{"ха\u0301ти"}},
			},
		},
		{
			ID: Big, Headword: "вели\u0301кий", PartOfSpeech: "adjective",
			Definitions: []string{"big", "large"}, Frequency: rank(100),
			Forms: dictionary.Forms{
				"masculine": map[string]any{"nominative": []any{"вели\u0301кий"}},
				"feminine":  map[string]any{"nominative": []any{"вели\u0301ка"}},
			},
		},
		{
			ID: Cat, Headword: "кі\u0301шка", PartOfSpeech: "noun",
			Definitions: []string{"cat (female)", "domestic cat"}, Frequency: rank(2100),
		},
		{
			ID: Porch, Headword: "ґа\u0301нок", PartOfSpeech: "noun",
			Definitions: []string{"porch"}, Frequency: rank(7000),
		},
		{
			ID: Cafe, Headword: "кафе\u0301", PartOfSpeech: "noun",
			Info: "indeclinable", Definitions: []string{"café"},
			Forms: dictionary.Forms{"indeclinable": "кафе\u0301"},
		},
		{
			ID: Hut, Headword: "хати\u0301нка", PartOfSpeech: "noun",
			Definitions: []string{"велика кімната; стара хата"}, Frequency: rank(9500),
		},
		{
			ID: BigHut, Headword: "хати\u0301ще", PartOfSpeech: "noun",
			Definitions: []string{"велика хата (augmentative)"}, Frequency: rank(9800),
		},
	}
}

// New returns the fixture as a loaded dictionary.
func New() *dictionary.Dictionary {
	entries := Entries()
	terms, letters, _ := indexer.Build(entries)
	return dictionary.New(entries, terms, letters)
}
