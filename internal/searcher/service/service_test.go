package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/dictionarytest"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/redis"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func newService(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default().Search
	return New(executor.New(dictionarytest.New(), cfg, nil, nil), nil, nil, cfg)
}

func TestNewRequestDefaults(t *testing.T) {
	s := newService(t)

	req, err := s.NewRequest(LookupParams{Query: "кіт"})
	require.NoError(t, err)
	assert.Equal(t, executor.Request{Query: "кіт", Sort: collate.OrderFreq, Limit: 100, Exact: true}, req)
}

func TestNewRequestOverrides(t *testing.T) {
	s := newService(t)

	req, err := s.NewRequest(LookupParams{
		Query: "кіт", Filter: "noun", Sort: "alpha_rev", Limit: intPtr(5), Exact: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "noun", req.PartOfSpeech)
	assert.Equal(t, collate.OrderAlphaRev, req.Sort)
	assert.Equal(t, 5, req.Limit)
	assert.False(t, req.Exact)
}

func TestNewRequestValidation(t *testing.T) {
	s := newService(t)

	tests := []struct {
		name    string
		params  LookupParams
		message string
	}{
		{
			"unknown filter",
			LookupParams{Filter: "pronoun"},
			"Invalid filter value 'pronoun'. Valid values: ['adjective', 'noun', 'verb']",
		},
		{
			"unknown sort",
			LookupParams{Sort: "random"},
			"Invalid sort value 'random'. Valid values: ['alpha', 'alpha_rev', 'freq']",
		},
		{"zero limit", LookupParams{Limit: intPtr(0)}, "limit must be between 1 and 10000, got 0"},
		{"limit too large", LookupParams{Limit: intPtr(10001)}, "limit must be between 1 and 10000, got 10001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.NewRequest(tt.params)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatusCode(err))
			assert.Equal(t, tt.message, apperrors.Message(err))
		})
	}
}

func TestLookupWithoutCache(t *testing.T) {
	s := newService(t)

	result, err := s.Lookup(context.Background(), LookupParams{Query: "кіт"}, TransportHTTP)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, dictionarytest.Kit, result.Data[0].ID)
}

func TestLookupCancelledContext(t *testing.T) {
	s := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Lookup(ctx, LookupParams{Query: "кіт"}, TransportHTTP)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
}

func TestLookupUsesCacheAndRecordsAnalytics(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := config.RedisConfig{Addr: mr.Addr(), PoolSize: 2, CacheTTL: time.Minute}
	client, err := pkgredis.NewClient(redisCfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	agg := analytics.NewAggregator()
	collector := analytics.NewCollector(analytics.LocalPublisher{Aggregator: agg}, analytics.CollectorConfig{}, nil)
	collector.Start(context.Background())

	cfg := config.Default().Search
	s := New(executor.New(dictionarytest.New(), cfg, nil, nil), cache.New(client, redisCfg, nil), collector, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := s.Lookup(ctx, LookupParams{Query: "хата", Exact: boolPtr(false)}, TransportRPC)
		require.NoError(t, err)
		assert.Equal(t, 3, result.TotalMatches)
	}
	_, err = s.Lookup(ctx, LookupParams{Query: "пес"}, TransportHTTP)
	require.NoError(t, err)
	collector.Close()

	hits, misses, breaker, err := s.CacheStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
	assert.Equal(t, "closed", breaker)

	stats := agg.Stats()
	assert.Equal(t, int64(3), stats.TotalLookups)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.ZeroResultCount)

	n, err := s.InvalidateCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCacheDisabled(t *testing.T) {
	s := newService(t)

	assert.False(t, s.CacheEnabled())
	_, _, _, err := s.CacheStats()
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatusCode(err))
	_, err = s.InvalidateCache(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestHighlight(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	out, err := s.Highlight(ctx, HighlightParams{Query: `"domestic cat" кіт`, Text: "domestic cat, кіт"})
	require.NoError(t, err)
	assert.Equal(t, "<mark>domestic cat</mark>, <mark>кіт</mark>", out)

	out, err = s.Highlight(ctx, HighlightParams{FuzzyWords: []string{"хата"}, Text: "стара хата"})
	require.NoError(t, err)
	assert.Equal(t, "стара <mark>хата</mark>", out)
}

func TestHighlightRejectsHugeText(t *testing.T) {
	s := newService(t)
	text := make([]rune, maxHighlightRunes+1)
	for i := range text {
		text[i] = 'а'
	}

	_, err := s.Highlight(context.Background(), HighlightParams{FuzzyWords: []string{"а"}, Text: string(text)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPartsOfSpeech(t *testing.T) {
	assert.Equal(t, []string{"adjective", "noun", "verb"}, newService(t).PartsOfSpeech())
}
