// Package normalize implements the Ukrainian text folding shared by the
// index, the lookup pipeline and the highlighter.
//
// Canonical forms in the term index are lowercase, carry no stress marks and
// fold the letter pairs users type interchangeably (ї/і, ґ/г). Every
// comparison against the index or against entry content goes through the
// same functions so the two sides agree.
//
// All functions are safe for concurrent use.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// StressMark is the combining acute accent used to mark stress in headwords
// and forms.
const StressMark = '\u0301'

// Alphabet is the Ukrainian alphabet in collation order.
const Alphabet = "абвгґдеєжзиіїйклмнопрстуфхцчшщьюя"

var alphabet = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(Alphabet))
	for _, r := range Alphabet {
		m[r] = struct{}{}
	}
	return m
}()

var stressRemover = runes.Remove(runes.Predicate(func(r rune) bool {
	return r == StressMark
}))

var letterFolder = strings.NewReplacer(
	"ї", "і",
	"ґ", "г",
)

// StripStress removes combining stress marks.
func StripStress(s string) string {
	if !strings.ContainsRune(s, StressMark) {
		return s
	}
	out, _, err := transform.String(stressRemover, s)
	if err != nil {
		return strings.ReplaceAll(s, string(StressMark), "")
	}
	return out
}

// FoldLetters replaces ї with і and ґ with г. Input is expected to be
// lowercase already.
func FoldLetters(s string) string {
	return letterFolder.Replace(s)
}

// Lower lowercases s.
func Lower(s string) string {
	return strings.ToLower(s)
}

// Canonical lowercases, strips stress and folds letters: the form stored in
// the term index and compared against headwords and forms.
func Canonical(s string) string {
	return FoldLetters(StripStress(strings.ToLower(s)))
}

// FoldRune applies Canonical to a single rune. Stress marks are returned
// unchanged so callers can still detect them.
func FoldRune(r rune) rune {
	r = unicode.ToLower(r)
	switch r {
	case 'ї':
		return 'і'
	case 'ґ':
		return 'г'
	}
	return r
}

// IsSourceLetter reports whether r is a letter of the Ukrainian alphabet in
// either case.
func IsSourceLetter(r rune) bool {
	_, ok := alphabet[unicode.ToLower(r)]
	return ok
}

// IsSourceWord reports whether s is non-empty and consists only of Ukrainian
// letters.
func IsSourceWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsSourceLetter(r) {
			return false
		}
	}
	return true
}

// StripParentheticals drops parenthesised text, tracking nesting depth.
// An unmatched closing parenthesis is dropped without affecting depth.
func StripParentheticals(s string) string {
	if !strings.ContainsAny(s, "()") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
