package parser

import (
	"regexp"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/normalize"
)

var literalPattern = regexp.MustCompile(`"([^"]*)"`)

// Query is the parsed form of a raw lookup string. Literal phrases are the
// contents of double-quoted segments; fuzzy words are the remaining
// whitespace-separated tokens in their original order. Both are lowercased
// and letter-folded. An unbalanced quote is left in place and becomes part
// of a fuzzy word.
type Query struct {
	Raw            string
	Normalized     string
	LiteralPhrases []string
	FuzzyWords     []string
}

// Parse splits raw into literal phrases and fuzzy words. It never fails;
// blank input yields empty collections.
func Parse(raw string) *Query {
	q := &Query{
		Raw:            raw,
		LiteralPhrases: make([]string, 0),
		FuzzyWords:     make([]string, 0),
	}
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	q.Normalized = normalized
	if normalized == "" {
		return q
	}
	for _, m := range literalPattern.FindAllStringSubmatch(normalized, -1) {
		q.LiteralPhrases = append(q.LiteralPhrases, normalize.FoldLetters(m[1]))
	}
	rest := literalPattern.ReplaceAllString(normalized, "")
	for _, word := range strings.Fields(rest) {
		q.FuzzyWords = append(q.FuzzyWords, normalize.FoldLetters(word))
	}
	return q
}

// LiteralWords returns the words of every literal phrase, in order.
func (q *Query) LiteralWords() []string {
	var words []string
	for _, phrase := range q.LiteralPhrases {
		words = append(words, strings.Fields(phrase)...)
	}
	return words
}

// Empty reports whether the query contributes no phrases and no words.
func (q *Query) Empty() bool {
	return len(q.LiteralPhrases) == 0 && len(q.FuzzyWords) == 0
}
