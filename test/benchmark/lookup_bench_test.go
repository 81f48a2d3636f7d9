package benchmark

import (
	"context"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
)

// BenchmarkQueryParse measures query parsing latency for queries of varying
// complexity.
func BenchmarkQueryParse(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"single", "кіт"},
		{"two_words", "стара хата"},
		{"phrase", `"стара хата"`},
		{"mixed", `Ґанок "велика хата" КІТ`},
		{"long", "велика стара хата біля річки де живе рудий кіт і сірий їжак"},
	}

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = parser.Parse(q.query)
			}
		})
	}
}

// BenchmarkLookup measures the full pipeline over the generated dictionary.
func BenchmarkLookup(b *testing.B) {
	dict := benchDictionary()
	exec := executor.New(dict, config.Default().Search, nil, nil)

	requests := []struct {
		name string
		req  executor.Request
	}{
		{"empty_query", executor.Request{Sort: collate.OrderFreq, Limit: 100}},
		{"single_letter", executor.Request{Query: "к", Sort: collate.OrderFreq, Limit: 100}},
		{"prefix", executor.Request{Query: "ка", Sort: collate.OrderAlpha, Limit: 100}},
		{"two_words", executor.Request{Query: "ка ро", Sort: collate.OrderFreq, Limit: 100}},
		{"exact", executor.Request{Query: "кот", Sort: collate.OrderFreq, Limit: 100, Exact: true}},
		{"phrase", executor.Request{Query: `"ка"`, Sort: collate.OrderFreq, Limit: 100}},
		{"filtered", executor.Request{Query: "ма", PartOfSpeech: "verb", Sort: collate.OrderAlphaRev, Limit: 100}},
	}

	for _, r := range requests {
		b.Run(r.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = exec.Lookup(r.req)
			}
		})
	}
}

// BenchmarkLookupParallel measures concurrent lookups sharing one
// dictionary.
func BenchmarkLookupParallel(b *testing.B) {
	exec := executor.New(benchDictionary(), config.Default().Search, nil, nil)
	req := executor.Request{Query: "ка", Sort: collate.OrderFreq, Limit: 100}
	ctx := context.Background()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := exec.Execute(ctx, req); err != nil {
				b.Error(err)
			}
		}
	})
}
