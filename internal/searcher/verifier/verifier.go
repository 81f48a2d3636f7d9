// Package verifier confirms that a literal phrase occurs as a whole in an
// entry, not just as separate words somewhere in it.
package verifier

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/normalize"
)

// Verify keeps the candidates that contain every phrase. Blank phrases
// impose no restriction. Ids unknown to store never pass a phrase.
func Verify(store *dictionary.Store, candidates index.IDSet, phrases []string) index.IDSet {
	result := candidates
	for _, phrase := range phrases {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		kept := make(index.IDSet, len(result))
		for id := range result {
			e, ok := store.Get(id)
			if !ok {
				continue
			}
			if EntryContainsPhrase(e, phrase) {
				kept[id] = struct{}{}
			}
		}
		result = kept
		if len(result) == 0 {
			break
		}
	}
	return result
}

// EntryContainsPhrase reports whether phrase, already lowercased and
// letter-folded, occurs in e. Any one of these is sufficient:
//
//   - a definition, with parenthesised text removed, contains it
//   - a form equals it
//   - the headword equals it
func EntryContainsPhrase(e *dictionary.Entry, phrase string) bool {
	for _, def := range e.Definitions {
		cleaned := normalize.FoldLetters(normalize.Lower(normalize.StripParentheticals(def)))
		if strings.Contains(cleaned, phrase) {
			return true
		}
	}
	for _, form := range e.Forms.Flatten() {
		if normalize.Canonical(form) == phrase {
			return true
		}
	}
	return normalize.Canonical(e.Headword) == phrase
}
