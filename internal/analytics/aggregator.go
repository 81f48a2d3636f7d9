package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/kafka"
)

// maxLatencySamples bounds the latency window used for percentiles.
const maxLatencySamples = 10000

type AggregatedStats struct {
	TotalLookups      int64            `json:"total_lookups"`
	CacheHits         int64            `json:"cache_hits"`
	CacheMisses       int64            `json:"cache_misses"`
	ZeroResultCount   int64            `json:"zero_result_count"`
	Highlights        int64            `json:"highlights"`
	AvgLatencyMs      float64          `json:"avg_latency_ms"`
	P50LatencyMs      int64            `json:"p50_latency_ms"`
	P95LatencyMs      int64            `json:"p95_latency_ms"`
	P99LatencyMs      int64            `json:"p99_latency_ms"`
	TopQueries        []QueryCount     `json:"top_queries"`
	ZeroResultQueries []QueryCount     `json:"zero_result_queries"`
	ByPartOfSpeech    map[string]int64 `json:"by_filter"`
	BySort            map[string]int64 `json:"by_sort"`
	LookupsPerMinute  float64          `json:"lookups_per_minute"`
	Since             time.Time        `json:"since"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator folds lookup events into running totals. It is safe for
// concurrent use.
type Aggregator struct {
	mu                sync.RWMutex
	totalLookups      int64
	cacheHits         int64
	cacheMisses       int64
	zeroResults       int64
	highlights        int64
	latencies         []int64
	next              int
	queryCounts       map[string]int64
	zeroResultQueries map[string]int64
	byPartOfSpeech    map[string]int64
	bySort            map[string]int64
	startTime         time.Time
	now               func() time.Time

	logger *slog.Logger
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:         make([]int64, 0, 1024),
		queryCounts:       make(map[string]int64),
		zeroResultQueries: make(map[string]int64),
		byPartOfSpeech:    make(map[string]int64),
		bySort:            make(map[string]int64),
		startTime:         time.Now(),
		now:               time.Now,
		logger:            slog.Default().With("component", "analytics-aggregator"),
	}
}

// HandleMessage is the kafka.MessageHandler that feeds the aggregator from
// the lookup-events topic. Undecodable messages are logged and skipped so
// they are committed rather than redelivered forever.
func (a *Aggregator) HandleMessage() kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		var probe struct {
			Type EventType `json:"type"`
		}
		if err := json.Unmarshal(value, &probe); err != nil {
			a.logger.Error("failed to decode analytics event", "error", err)
			return nil
		}
		switch probe.Type {
		case EventHighlight:
			event, err := kafka.DecodeJSON[HighlightEvent](value)
			if err != nil {
				a.logger.Error("failed to decode highlight event", "error", err)
				return nil
			}
			a.RecordHighlight(event)
		default:
			event, err := kafka.DecodeJSON[LookupEvent](value)
			if err != nil {
				a.logger.Error("failed to decode lookup event", "error", err)
				return nil
			}
			a.RecordLookup(event)
		}
		return nil
	}
}

func (a *Aggregator) record(value any) {
	switch event := value.(type) {
	case LookupEvent:
		a.RecordLookup(event)
	case HighlightEvent:
		a.RecordHighlight(event)
	default:
		a.logger.Warn("unknown analytics event", "type", fmt.Sprintf("%T", value))
	}
}

// RecordLookup adds one lookup to the totals.
func (a *Aggregator) RecordLookup(event LookupEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalLookups++
	if event.CacheHit {
		a.cacheHits++
	} else {
		a.cacheMisses++
	}

	if len(a.latencies) < maxLatencySamples {
		a.latencies = append(a.latencies, event.LatencyMs)
	} else {
		a.latencies[a.next] = event.LatencyMs
		a.next = (a.next + 1) % maxLatencySamples
	}

	a.queryCounts[event.Query]++
	if event.TotalMatches == 0 {
		a.zeroResults++
		a.zeroResultQueries[event.Query]++
	}
	if event.PartOfSpeech != "" {
		a.byPartOfSpeech[event.PartOfSpeech]++
	}
	if event.Sort != "" {
		a.bySort[event.Sort]++
	}
}

// RecordHighlight adds one highlight request to the totals.
func (a *Aggregator) RecordHighlight(HighlightEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.highlights++
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalLookups:    a.totalLookups,
		CacheHits:       a.cacheHits,
		CacheMisses:     a.cacheMisses,
		ZeroResultCount: a.zeroResults,
		Highlights:      a.highlights,
		ByPartOfSpeech:  copyCounts(a.byPartOfSpeech),
		BySort:          copyCounts(a.bySort),
		Since:           a.startTime.UTC(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}
	stats.TopQueries = topN(a.queryCounts, 10)
	stats.ZeroResultQueries = topN(a.zeroResultQueries, 10)
	elapsed := a.now().Sub(a.startTime).Minutes()
	if elapsed > 0 {
		stats.LookupsPerMinute = float64(stats.TotalLookups) / elapsed
	}

	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// topN returns the n most frequent queries, ties broken alphabetically.
func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
