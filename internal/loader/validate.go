package loader

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
)

// Issue is one consistency problem found in loaded artifacts.
type Issue struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	IssueLetterInvariant = "letter_invariant"
	IssueDanglingEntry   = "dangling_entry"
	IssueDuplicateEntry  = "duplicate_entry"
	IssueUnknownTerm     = "unknown_term"
)

// Report collects the issues found by Validate.
type Report struct {
	Entries int     `json:"entries"`
	Terms   int     `json:"terms"`
	Letters int     `json:"letters"`
	Issues  []Issue `json:"issues"`
}

// OK reports whether no issues were found.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// Counts groups the issues by kind.
func (r *Report) Counts() map[string]int {
	out := make(map[string]int)
	for _, is := range r.Issues {
		out[is.Kind]++
	}
	return out
}

func (r *Report) add(kind, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// Validate cross-checks the artifacts of d. Lookups still work on a
// dictionary with issues; they only miss or drop the affected entries.
func Validate(d *dictionary.Dictionary) *Report {
	r := &Report{
		Entries: d.Store.Len(),
		Terms:   d.Terms.Len(),
		Letters: d.Letters.Len(),
	}

	seen := make(map[int]struct{}, d.Store.Len())
	for _, e := range d.Store.Entries() {
		if _, dup := seen[e.ID]; dup {
			r.add(IssueDuplicateEntry, "entry id %d appears more than once", e.ID)
			continue
		}
		seen[e.ID] = struct{}{}
	}

	d.Terms.Each(func(id int, term index.Term) {
		for _, entryID := range term.Entries.Sorted() {
			if _, ok := d.Store.Get(entryID); !ok {
				r.add(IssueDanglingEntry, "term %d (%s) references missing entry %d", id, term.Canonical, entryID)
			}
		}
	})

	for _, v := range index.CheckLetterInvariant(d.Terms, d.Letters) {
		term, _ := d.Terms.Lookup(v.TermID)
		r.add(IssueLetterInvariant, "term %d (%s) is not filed under letter %q", v.TermID, term.Canonical, string(v.Letter))
	}

	for _, letter := range d.Letters.Letters() {
		for _, termID := range d.Letters.Terms(letter).Sorted() {
			if _, ok := d.Terms.Lookup(termID); !ok {
				r.add(IssueUnknownTerm, "letter %q references missing term %d", string(letter), termID)
			}
		}
	}
	return r
}
