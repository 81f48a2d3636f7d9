// Package proto defines the message types exchanged over the dictionary's
// JSON-over-TCP RPC layer (see pkg/rpc).
//
// The JSON tags match the HTTP API, so an RPC LookupResponse and the body
// of GET /api/lookup decode into the same shape.
package proto

// Method names served by the dictionary RPC server.
const (
	MethodLookup        = "Dictionary.Lookup"
	MethodHighlight     = "Dictionary.Highlight"
	MethodPartsOfSpeech = "Dictionary.PartsOfSpeech"
	MethodStats         = "Dictionary.Stats"
)

// ---------- Lookup ----------

// LookupRequest is the input to Dictionary.Lookup. Nil Limit and Exact take
// the server defaults.
type LookupRequest struct {
	Query  string `json:"q"`
	Filter string `json:"filter,omitempty"`
	Sort   string `json:"sort,omitempty"`
	Limit  *int   `json:"limit,omitempty"`
	Exact  *bool  `json:"exact,omitempty"`
}

// Entry is one dictionary entry as returned to clients.
type Entry struct {
	ID           int            `json:"index"`
	Headword     string         `json:"word"`
	PartOfSpeech string         `json:"pos"`
	Info         string         `json:"info,omitempty"`
	Definitions  []string       `json:"defs"`
	Frequency    *int           `json:"freq"`
	Forms        map[string]any `json:"forms,omitempty"`
	FormsKind    string         `json:"formsKind,omitempty"`
}

// LookupResponse is the output of Dictionary.Lookup.
type LookupResponse struct {
	Data           []Entry  `json:"data"`
	LiteralPhrases []string `json:"literalPhrases"`
	FuzzyWords     []string `json:"fuzzyWords"`
	TotalMatches   int      `json:"totalMatches"`
}

// ---------- Highlight ----------

// HighlightRequest is the input to Dictionary.Highlight. Query, when set,
// takes precedence over the explicit term lists.
type HighlightRequest struct {
	Text           string   `json:"text"`
	Query          string   `json:"query,omitempty"`
	LiteralPhrases []string `json:"literalPhrases,omitempty"`
	FuzzyWords     []string `json:"fuzzyWords,omitempty"`
}

// HighlightResponse is the output of Dictionary.Highlight.
type HighlightResponse struct {
	Highlighted string `json:"highlighted"`
}

// ---------- Metadata ----------

// PartsOfSpeechResponse lists the accepted filter values.
type PartsOfSpeechResponse struct {
	PartsOfSpeech []string `json:"partsOfSpeech"`
}

// StatsResponse describes the loaded dictionary.
type StatsResponse struct {
	Entries      int  `json:"entries"`
	Terms        int  `json:"terms"`
	Letters      int  `json:"letters"`
	CacheEnabled bool `json:"cacheEnabled"`
}
