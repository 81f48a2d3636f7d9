package dictionary

import (
	"sort"
)

// Forms maps a grammatical slot to its variants. Values are strings, lists
// of strings, or nested Forms-shaped maps; the depth depends on the part of
// speech (verbs nest tense and person, nouns nest number and case).
type Forms map[string]any

// FormsKind tags the shape of an entry's forms table.
type FormsKind string

const (
	FormsSingleNoun   FormsKind = "single_noun"
	FormsNoun         FormsKind = "noun"
	FormsAdjective    FormsKind = "adjective"
	FormsVerb         FormsKind = "verb"
	FormsIndeclinable FormsKind = "indeclinable"
	FormsUnrecognized FormsKind = "unrecognized"
)

var (
	verbKeys      = []string{"infinitive", "present", "future", "past", "imperative"}
	adjectiveKeys = []string{"masculine", "feminine", "neuter"}
	caseKeys      = []string{"nominative", "genitive", "dative", "accusative", "instrumental", "locative", "vocative"}
)

// ClassifyForms decides which table layout fits the forms mapping.
//
//   - verb: any tense/mood key
//   - adjective: any gender key
//   - noun: both "singular" and "plural"
//   - single noun: exactly one of "singular"/"plural", or case keys at the
//     top level (a single number column)
//   - indeclinable: no forms, or an explicit "indeclinable" key
func ClassifyForms(f Forms) FormsKind {
	if len(f) == 0 {
		return FormsIndeclinable
	}
	if _, ok := f["indeclinable"]; ok {
		return FormsIndeclinable
	}
	if f.hasAny(verbKeys) {
		return FormsVerb
	}
	if f.hasAny(adjectiveKeys) {
		return FormsAdjective
	}
	_, singular := f["singular"]
	_, plural := f["plural"]
	switch {
	case singular && plural:
		return FormsNoun
	case singular || plural:
		return FormsSingleNoun
	case f.hasAny(caseKeys):
		return FormsSingleNoun
	}
	return FormsUnrecognized
}

func (f Forms) hasAny(keys []string) bool {
	for _, k := range keys {
		if _, ok := f[k]; ok {
			return true
		}
	}
	return false
}

// Flatten returns every string leaf of the forms structure, ignoring its
// shape. Map keys are visited in sorted order so the result is
// deterministic.
func (f Forms) Flatten() []string {
	var out []string
	return flatten(map[string]any(f), out)
}

func flatten(v any, out []string) []string {
	switch val := v.(type) {
	case string:
		out = append(out, val)
	case []string:
		out = append(out, val...)
	case []any:
		for _, item := range val {
			out = flatten(item, out)
		}
	case Forms:
		out = flatten(map[string]any(val), out)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = flatten(val[k], out)
		}
	}
	return out
}
