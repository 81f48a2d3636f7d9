package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/normalize"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/highlight"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/resolver"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/verifier"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/tracing"
)

// Request is a validated lookup. The executor trusts its caller: an empty
// Sort means freq, an unknown PartOfSpeech simply matches nothing, and a
// Limit of zero or less returns every match.
type Request struct {
	Query        string        `json:"q"`
	PartOfSpeech string        `json:"filter,omitempty"`
	Sort         collate.Order `json:"sort,omitempty"`
	Limit        int           `json:"limit"`
	Exact        bool          `json:"exact"`
}

// Result is the outcome of a lookup. LiteralPhrases and FuzzyWords are nil
// when the request carried no query, so they encode as JSON null.
type Result struct {
	Data           []*dictionary.Entry `json:"data"`
	LiteralPhrases []string            `json:"literalPhrases"`
	FuzzyWords     []string            `json:"fuzzyWords"`
	TotalMatches   int                 `json:"totalMatches"`
}

// Terms returns the highlight terms of the result.
func (r *Result) Terms() highlight.Terms {
	return highlight.Terms{LiteralPhrases: r.LiteralPhrases, FuzzyWords: r.FuzzyWords}
}

type Executor struct {
	dict        *dictionary.Dictionary
	resolver    *resolver.Resolver
	highlighter *highlight.Highlighter
	metrics     *metrics.Metrics
	tracer      *tracing.Tracer
	logger      *slog.Logger
}

// New builds an Executor over a loaded dictionary. m and tracer may be nil.
func New(dict *dictionary.Dictionary, cfg config.SearchConfig, m *metrics.Metrics, tracer *tracing.Tracer) *Executor {
	return &Executor{
		dict:     dict,
		resolver: resolver.New(dict.Terms, dict.Letters, cfg.SubstringMaxRunes),
		highlighter: highlight.New(highlight.Marker{
			Open:  cfg.HighlightOpen,
			Close: cfg.HighlightClose,
		}),
		metrics: m,
		tracer:  tracer,
		logger:  slog.Default().With("component", "lookup-executor"),
	}
}

// Dictionary returns the dictionary the executor reads.
func (e *Executor) Dictionary() *dictionary.Dictionary {
	return e.dict
}

// Lookup runs the pipeline. It has no side effects and is safe for
// concurrent use.
func (e *Executor) Lookup(req Request) *Result {
	return e.lookup(context.Background(), req)
}

// Execute runs Lookup with logging, tracing and metrics. It fails only when
// ctx is already done.
func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		e.observe("error", 0, 0)
		return nil, fmt.Errorf("%w: lookup %q: %w", apperrors.ErrTimeout, req.Query, err)
	}
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "lookup", logger.RequestID(ctx))
	span.SetAttr("query", req.Query)
	span.SetAttr("sort", string(req.Sort))

	result := e.lookup(ctx, req)

	span.SetAttr("total_matches", result.TotalMatches)
	span.Finish()

	elapsed := time.Since(start)
	resultType := "hit"
	if result.TotalMatches == 0 {
		resultType = "zero_result"
	}
	e.observe(resultType, elapsed, result.TotalMatches)
	logger.FromContext(ctx).Debug("lookup executed",
		"component", "lookup-executor",
		"query", req.Query,
		"filter", req.PartOfSpeech,
		"sort", req.Sort,
		"exact", req.Exact,
		"total_matches", result.TotalMatches,
		"returned", len(result.Data),
		"duration_us", elapsed.Microseconds(),
	)
	return result, nil
}

func (e *Executor) observe(resultType string, elapsed time.Duration, total int) {
	if e.metrics == nil {
		return
	}
	e.metrics.LookupsTotal.WithLabelValues(resultType).Inc()
	if resultType == "error" {
		return
	}
	e.metrics.LookupLatency.WithLabelValues("miss").Observe(elapsed.Seconds())
	e.metrics.LookupResultsCount.Observe(float64(total))
}

func (e *Executor) lookup(ctx context.Context, req Request) *Result {
	store := e.dict.Store
	entries := store.View(req.Sort)

	if req.PartOfSpeech != "" {
		entries = filter(entries, func(en *dictionary.Entry) bool {
			return en.PartOfSpeech == req.PartOfSpeech
		})
	}

	result := &Result{}
	if req.Query != "" {
		q := parser.Parse(req.Query)
		result.LiteralPhrases = q.LiteralPhrases
		result.FuzzyWords = q.FuzzyWords

		_, span := tracing.StartChildSpan(ctx, "resolve")
		ids, restricted := e.resolver.Resolve(q)
		span.SetAttr("candidates", ids.Len())
		span.End()

		if restricted {
			_, span = tracing.StartChildSpan(ctx, "verify")
			ids = verifier.Verify(store, ids, q.LiteralPhrases)
			span.SetAttr("verified", ids.Len())
			span.End()
			entries = filterIDs(entries, ids)
		}
	}

	if req.Exact {
		if target := exactKey(req.Query); target != "" {
			entries = filter(entries, func(en *dictionary.Entry) bool {
				return exactKey(en.Headword) == target
			})
		}
	}

	result.TotalMatches = len(entries)
	if req.Limit > 0 && len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}
	result.Data = make([]*dictionary.Entry, len(entries))
	copy(result.Data, entries)
	return result
}

// exactKey is the form compared by the exact-match filter: trimmed,
// lowercased and without stress marks. Letters are not folded.
func exactKey(s string) string {
	return normalize.StripStress(strings.ToLower(strings.TrimSpace(s)))
}

func filter(entries []*dictionary.Entry, keep func(*dictionary.Entry) bool) []*dictionary.Entry {
	out := make([]*dictionary.Entry, 0, len(entries))
	for _, en := range entries {
		if keep(en) {
			out = append(out, en)
		}
	}
	return out
}

func filterIDs(entries []*dictionary.Entry, ids index.IDSet) []*dictionary.Entry {
	if len(ids) == 0 {
		return []*dictionary.Entry{}
	}
	return filter(entries, func(en *dictionary.Entry) bool {
		return ids.Has(en.ID)
	})
}

// Highlight marks terms in text.
func (e *Executor) Highlight(terms highlight.Terms, text string) string {
	if e.metrics != nil {
		e.metrics.HighlightsTotal.Inc()
	}
	return e.highlighter.Highlight(terms, text)
}

// HighlightQuery parses query and marks its terms in text.
func (e *Executor) HighlightQuery(query, text string) string {
	q := parser.Parse(query)
	return e.Highlight(highlight.Terms{LiteralPhrases: q.LiteralPhrases, FuzzyWords: q.FuzzyWords}, text)
}
