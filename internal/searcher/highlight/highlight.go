// Package highlight wraps occurrences of lookup terms in display text with
// a highlight marker.
//
// Each term is applied as one left-to-right pass driven by a two-state
// machine (idle, matching). Literal phrases run before fuzzy words, and text
// already inside a highlight is never highlighted again, so a literal match
// wins over any fuzzy match on the same span. Text inside parentheses is
// never highlighted.
package highlight

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/normalize"
)

// Marker is the pair of strings placed around a highlighted span.
type Marker struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// DefaultMarker wraps spans in an HTML mark element.
var DefaultMarker = Marker{Open: "<mark>", Close: "</mark>"}

// Terms is the matched term set of a lookup.
type Terms struct {
	LiteralPhrases []string `json:"literalPhrases"`
	FuzzyWords     []string `json:"fuzzyWords"`
}

// Empty reports whether there is nothing to highlight.
func (t Terms) Empty() bool {
	return len(t.LiteralPhrases) == 0 && len(t.FuzzyWords) == 0
}

// Highlighter is immutable and safe for concurrent use.
type Highlighter struct {
	open  []rune
	close []rune
}

// New returns a Highlighter using m. A zero Marker selects DefaultMarker.
func New(m Marker) *Highlighter {
	if m.Open == "" && m.Close == "" {
		m = DefaultMarker
	}
	return &Highlighter{open: []rune(m.Open), close: []rune(m.Close)}
}

// Highlight returns text with every occurrence of terms wrapped in the
// marker. Terms are compared after lowercasing, stress removal and letter
// folding; the original characters of text are preserved.
func (h *Highlighter) Highlight(terms Terms, text string) string {
	if terms.Empty() || text == "" {
		return text
	}
	for _, phrase := range terms.LiteralPhrases {
		text = h.pass(text, phrase, true)
	}
	for _, word := range terms.FuzzyWords {
		text = h.pass(text, word, false)
	}
	return text
}

func (h *Highlighter) pass(text, term string, literal bool) string {
	t := []rune(normalize.Canonical(term))
	if len(t) == 0 {
		return text
	}
	s := &scanner{
		h:       h,
		text:    []rune(text),
		term:    t,
		literal: literal,
		// a lone fuzzy letter may match inside a word
		needBoundary: !literal && len(t) > 1,
	}
	s.out.Grow(len(text) + len(h.open) + len(h.close))
	return s.run()
}

type state int

const (
	stateIdle state = iota
	stateMatching
)

type class int

const (
	classOther class = iota
	classParenOpen
	classParenClose
	classStress
	classMarkOpen
	classMarkClose
)

type scanner struct {
	h            *Highlighter
	text         []rune
	term         []rune
	literal      bool
	needBoundary bool

	out   strings.Builder
	state state
	pos   int
	start int // first rune of the match in progress
	k     int // term runes matched so far
	depth int // parenthesis depth
	marks int // highlight depth
}

func (s *scanner) run() string {
	for {
		if s.pos >= len(s.text) {
			if s.state == stateMatching {
				s.abandon()
				continue
			}
			return s.out.String()
		}
		c, width := s.classify()
		switch s.state {
		case stateIdle:
			s.idle(c, width)
		case stateMatching:
			s.matching(c)
		}
	}
}

func (s *scanner) classify() (class, int) {
	if hasPrefix(s.text[s.pos:], s.h.open) {
		return classMarkOpen, len(s.h.open)
	}
	if hasPrefix(s.text[s.pos:], s.h.close) {
		return classMarkClose, len(s.h.close)
	}
	switch s.text[s.pos] {
	case '(':
		return classParenOpen, 1
	case ')':
		return classParenClose, 1
	case normalize.StressMark:
		return classStress, 1
	}
	return classOther, 1
}

func (s *scanner) idle(c class, width int) {
	switch c {
	case classMarkOpen:
		s.marks++
		s.emit(s.text[s.pos : s.pos+width])
		s.pos += width
	case classMarkClose:
		if s.marks > 0 {
			s.marks--
		}
		s.emit(s.text[s.pos : s.pos+width])
		s.pos += width
	case classParenOpen:
		s.depth++
		s.out.WriteRune(s.text[s.pos])
		s.pos++
	case classParenClose:
		if s.depth > 0 {
			s.depth--
		}
		s.out.WriteRune(s.text[s.pos])
		s.pos++
	default:
		if s.canStart() {
			s.state = stateMatching
			s.start = s.pos
			s.k = 1
			s.pos++
			if s.k == len(s.term) {
				s.complete()
			}
			return
		}
		s.out.WriteRune(s.text[s.pos])
		s.pos++
	}
}

func (s *scanner) matching(c class) {
	switch {
	case c == classMarkOpen || c == classMarkClose:
		s.abandon()
	case normalize.FoldRune(s.text[s.pos]) == s.term[s.k]:
		s.k++
		s.pos++
		if s.k == len(s.term) {
			s.complete()
		}
	case c == classStress:
		s.pos++
	default:
		s.abandon()
	}
}

func (s *scanner) canStart() bool {
	if s.depth > 0 || s.marks > 0 {
		return false
	}
	if normalize.FoldRune(s.text[s.pos]) != s.term[0] {
		return false
	}
	return !s.needBoundary || s.boundaryBefore(s.pos)
}

// boundaryBefore reports whether i starts a word. Stress marks between i and
// the previous letter are skipped.
func (s *scanner) boundaryBefore(i int) bool {
	for j := i - 1; j >= 0; j-- {
		if s.text[j] == normalize.StressMark {
			continue
		}
		return !normalize.IsSourceLetter(s.text[j])
	}
	return true
}

// complete closes the match at s.pos, taking any stress marks that follow.
// A literal phrase must also end at a word boundary.
func (s *scanner) complete() {
	end := s.pos
	for end < len(s.text) && s.text[end] == normalize.StressMark {
		end++
	}
	if s.literal && end < len(s.text) && normalize.IsSourceLetter(s.text[end]) {
		s.abandon()
		return
	}
	span := s.text[s.start:end]
	s.emit(s.h.open)
	s.emit(span)
	s.emit(s.h.close)
	for _, r := range span {
		switch r {
		case '(':
			s.depth++
		case ')':
			if s.depth > 0 {
				s.depth--
			}
		}
	}
	s.pos = end
	s.state = stateIdle
}

// abandon emits the first rune of the broken match unhighlighted and resumes
// scanning right after it, so overlapping occurrences are still found.
func (s *scanner) abandon() {
	s.out.WriteRune(s.text[s.start])
	s.pos = s.start + 1
	s.state = stateIdle
}

func (s *scanner) emit(rs []rune) {
	for _, r := range rs {
		s.out.WriteRune(r)
	}
}

func hasPrefix(text, prefix []rune) bool {
	if len(prefix) == 0 || len(prefix) > len(text) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}
