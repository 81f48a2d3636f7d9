// Package analytics records what users look up. The HTTP and RPC layers
// Track a LookupEvent per lookup; the Collector batches events onto Kafka
// (or straight into a local Aggregator when Kafka is disabled) and the
// Aggregator folds them into the figures served at /api/analytics.
package analytics

import "time"

type EventType string

const (
	EventLookup     EventType = "lookup"
	EventCacheHit   EventType = "cache_hit"
	EventZeroResult EventType = "zero_result"
	EventHighlight  EventType = "highlight"
)

// LookupEvent describes one served lookup.
type LookupEvent struct {
	Type         EventType `json:"type"`
	Query        string    `json:"query"`
	PartOfSpeech string    `json:"filter,omitempty"`
	Sort         string    `json:"sort"`
	Exact        bool      `json:"exact"`
	Limit        int       `json:"limit"`
	TotalMatches int       `json:"total_matches"`
	Returned     int       `json:"returned"`
	LatencyMs    int64     `json:"latency_ms"`
	CacheHit     bool      `json:"cache_hit"`
	Transport    string    `json:"transport"`
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id,omitempty"`
}

// Classify sets Type from the outcome of the lookup.
func (e *LookupEvent) Classify() {
	switch {
	case e.TotalMatches == 0:
		e.Type = EventZeroResult
	case e.CacheHit:
		e.Type = EventCacheHit
	default:
		e.Type = EventLookup
	}
}

// HighlightEvent describes one highlight request.
type HighlightEvent struct {
	Type      EventType `json:"type"`
	TextRunes int       `json:"text_runes"`
	Terms     int       `json:"terms"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
