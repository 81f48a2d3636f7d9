// Package benchmark contains Go benchmarks for the indexer, the lookup
// pipeline and the highlighter, measuring throughput and allocation
// behaviour over a generated dictionary.
package benchmark

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/indexer"
)

const alphabet = "абвгґдеєжзиіїйклмнопрстуфхцчшщьюя"

var (
	corpusOnce sync.Once
	corpus     *dictionary.Dictionary
)

// syntheticEntries builds n entries from a fixed seed, so runs are
// comparable.
func syntheticEntries(n int) []dictionary.Entry {
	rng := rand.New(rand.NewSource(42))
	letters := []rune(alphabet)
	word := func(min, max int) string {
		var sb strings.Builder
		for i, l := 0, min+rng.Intn(max-min+1); i < l; i++ {
			sb.WriteRune(letters[rng.Intn(len(letters))])
		}
		return sb.String()
	}
	pos := []string{"noun", "verb", "adjective", "adverb"}

	entries := make([]dictionary.Entry, n)
	for i := range entries {
		head := word(3, 10)
		var freq *int
		if rng.Intn(4) != 0 {
			f := rng.Intn(100000)
			freq = &f
		}
		entries[i] = dictionary.Entry{
			ID:           i + 1,
			Headword:     head,
			PartOfSpeech: pos[rng.Intn(len(pos))],
			Definitions: []string{
				fmt.Sprintf("%s %s (%s)", word(3, 8), word(3, 8), word(4, 6)),
				word(4, 9),
			},
			Frequency: freq,
			Forms: dictionary.Forms{
				"singular": map[string]any{"nominative": []any{head}, "genitive": []any{head + "а"}},
				"plural":   map[string]any{"nominative": []any{head + "и"}},
			},
		}
	}
	return entries
}

// benchDictionary returns a shared 20 000 entry dictionary.
func benchDictionary() *dictionary.Dictionary {
	corpusOnce.Do(func() {
		entries := syntheticEntries(20000)
		terms, letters, _ := indexer.Build(entries)
		corpus = dictionary.New(entries, terms, letters)
	})
	return corpus
}
