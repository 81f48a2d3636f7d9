// Package tokenizer splits dictionary text into canonical index terms.
// Input is lowercased, stripped of stress marks and letter-folded, then split
// on every rune that is not a letter. Parenthesised text is dropped before
// splitting so glosses like "(animal)" never become terms.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/normalize"
)

// Token represents a single canonical term and its position in the
// original text.
type Token struct {
	Term     string
	Position int
}

// Tokenize breaks text into canonical tokens.
func Tokenize(text string) []Token {
	text = normalize.Canonical(normalize.StripParentheticals(text))
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	tokens := make([]Token, 0, len(words))
	pos := 0
	for _, word := range words {
		word = strings.Trim(word, "'")
		if word == "" {
			continue
		}
		tokens = append(tokens, Token{
			Term:     word,
			Position: pos,
		})
		pos++
	}
	return tokens
}

// Terms returns the distinct terms of text in first-seen order.
func Terms(text string) []string {
	tokens := Tokenize(text)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t.Term]; ok {
			continue
		}
		seen[t.Term] = struct{}{}
		out = append(out, t.Term)
	}
	return out
}
