// Package service is the transport-independent face of the lookup engine.
// It validates caller parameters, consults the result cache, runs the
// executor and reports each request to analytics. The HTTP handler and the
// RPC server are thin adapters over it.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/highlight"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/logger"
)

const (
	TransportHTTP = "http"
	TransportRPC  = "rpc"
	TransportCLI  = "cli"
)

// maxHighlightRunes caps the text accepted by Highlight.
const maxHighlightRunes = 1 << 16

// LookupParams are caller-supplied lookup options. Nil Limit and Exact take
// the configured defaults; an empty Filter means no filter and an empty Sort
// means the configured default order.
type LookupParams struct {
	Query  string
	Filter string
	Sort   string
	Limit  *int
	Exact  *bool
}

// HighlightParams select the terms to mark. When Query is set it is parsed
// for terms; otherwise LiteralPhrases and FuzzyWords are used as given.
type HighlightParams struct {
	Text           string
	Query          string
	LiteralPhrases []string
	FuzzyWords     []string
}

type Service struct {
	executor  *executor.Executor
	cache     *cache.LookupCache
	collector *analytics.Collector
	cfg       config.SearchConfig
	logger    *slog.Logger
}

// New wires a service. lookupCache and collector may be nil.
func New(exec *executor.Executor, lookupCache *cache.LookupCache, collector *analytics.Collector, cfg config.SearchConfig) *Service {
	return &Service{
		executor:  exec,
		cache:     lookupCache,
		collector: collector,
		cfg:       cfg,
		logger:    slog.Default().With("component", "lookup-service"),
	}
}

// NewRequest validates p and resolves defaults.
func (s *Service) NewRequest(p LookupParams) (executor.Request, error) {
	req := executor.Request{
		Query:        p.Query,
		PartOfSpeech: p.Filter,
		Limit:        s.cfg.DefaultLimit,
		Exact:        s.cfg.DefaultExact,
	}

	if p.Filter != "" && !s.executor.Dictionary().Store.HasPartOfSpeech(p.Filter) {
		return req, apperrors.InvalidInputf("Invalid filter value '%s'. Valid values: %s",
			p.Filter, formatValues(s.PartsOfSpeech()))
	}

	sortName := p.Sort
	if sortName == "" {
		sortName = s.cfg.DefaultSort
	}
	order, err := collate.ParseOrder(sortName)
	if err != nil {
		return req, apperrors.InvalidInputf("Invalid sort value '%s'. Valid values: %s",
			sortName, formatValues(collate.Orders()))
	}
	req.Sort = order

	if p.Limit != nil {
		if *p.Limit < 1 || *p.Limit > s.cfg.MaxLimit {
			return req, apperrors.InvalidInputf("limit must be between 1 and %d, got %d", s.cfg.MaxLimit, *p.Limit)
		}
		req.Limit = *p.Limit
	}
	if p.Exact != nil {
		req.Exact = *p.Exact
	}
	return req, nil
}

// Lookup validates p, serves the lookup from cache when possible and
// records it for analytics.
func (s *Service) Lookup(ctx context.Context, p LookupParams, transport string) (*executor.Result, error) {
	start := time.Now()
	req, err := s.NewRequest(p)
	if err != nil {
		return nil, err
	}

	var result *executor.Result
	cacheHit := false
	compute := func() (*executor.Result, error) {
		return s.executor.Execute(ctx, req)
	}
	if s.cache != nil {
		result, cacheHit, err = s.cache.GetOrCompute(ctx, req, compute)
	} else {
		result, err = compute()
	}
	if err != nil {
		logger.FromContext(ctx).Error("lookup failed", "query", req.Query, "error", err)
		return nil, err
	}

	latency := time.Since(start)
	logger.FromContext(ctx).Info("lookup completed",
		"query", req.Query,
		"filter", req.PartOfSpeech,
		"sort", req.Sort,
		"total_matches", result.TotalMatches,
		"returned", len(result.Data),
		"cache_hit", cacheHit,
		"transport", transport,
		"latency_ms", latency.Milliseconds(),
	)
	if s.collector != nil {
		s.collector.TrackLookup(analytics.LookupEvent{
			Query:        strings.TrimSpace(req.Query),
			PartOfSpeech: req.PartOfSpeech,
			Sort:         string(req.Sort),
			Exact:        req.Exact,
			Limit:        req.Limit,
			TotalMatches: result.TotalMatches,
			Returned:     len(result.Data),
			LatencyMs:    latency.Milliseconds(),
			CacheHit:     cacheHit,
			Transport:    transport,
			Timestamp:    time.Now().UTC(),
			RequestID:    logger.RequestID(ctx),
		})
	}
	return result, nil
}

// Highlight marks the requested terms in p.Text.
func (s *Service) Highlight(ctx context.Context, p HighlightParams) (string, error) {
	n := utf8.RuneCountInString(p.Text)
	if n > maxHighlightRunes {
		return "", apperrors.InvalidInputf("text must be at most %d characters, got %d", maxHighlightRunes, n)
	}
	start := time.Now()

	terms := highlight.Terms{LiteralPhrases: p.LiteralPhrases, FuzzyWords: p.FuzzyWords}
	if p.Query != "" {
		q := parser.Parse(p.Query)
		terms = highlight.Terms{LiteralPhrases: q.LiteralPhrases, FuzzyWords: q.FuzzyWords}
	}
	out := s.executor.Highlight(terms, p.Text)

	if s.collector != nil {
		s.collector.TrackHighlight(analytics.HighlightEvent{
			TextRunes: n,
			Terms:     len(terms.LiteralPhrases) + len(terms.FuzzyWords),
			LatencyMs: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestID(ctx),
		})
	}
	return out, nil
}

// PartsOfSpeech returns the valid filter values, sorted.
func (s *Service) PartsOfSpeech() []string {
	return s.executor.Dictionary().Store.PartsOfSpeech()
}

// DictionaryStats reports the sizes of the loaded dictionary.
func (s *Service) DictionaryStats() (entries, terms, letters int) {
	d := s.executor.Dictionary()
	return d.Store.Len(), d.Terms.Len(), d.Letters.Len()
}

// CacheEnabled reports whether a result cache is configured.
func (s *Service) CacheEnabled() bool {
	return s.cache != nil
}

// CacheStats reports cache hit and miss counts and the breaker state.
func (s *Service) CacheStats() (hits, misses int64, breaker string, err error) {
	if s.cache == nil {
		return 0, 0, "", apperrors.New(apperrors.ErrUnavailable, http.StatusServiceUnavailable, "caching is disabled")
	}
	hits, misses = s.cache.Stats()
	return hits, misses, s.cache.BreakerState().String(), nil
}

// InvalidateCache drops every cached lookup.
func (s *Service) InvalidateCache(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, apperrors.New(apperrors.ErrUnavailable, http.StatusServiceUnavailable, "caching is disabled")
	}
	n, err := s.cache.Invalidate(ctx)
	if err != nil {
		s.logger.Error("cache invalidation failed", "error", err)
		return n, apperrors.New(apperrors.ErrInternal, http.StatusInternalServerError, "cache invalidation failed")
	}
	return n, nil
}

func formatValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("'%s'", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
