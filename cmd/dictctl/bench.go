package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
)

// defaultBenchQueries mixes exact headwords, prefixes, phrases and the
// single-letter substring case.
var defaultBenchQueries = []string{
	"кіт",
	"хата",
	"хат",
	"ко",
	"ї",
	"ґанок",
	"велика хата",
	`"стара хата"`,
	"кафе",
	"кішка",
	"",
}

type benchConfig struct {
	baseURL     string
	concurrency int
	duration    time.Duration
	queries     []string
}

type benchStats struct {
	total     atomic.Int64
	success   atomic.Int64
	failed    atomic.Int64
	mu        sync.Mutex
	latencies []time.Duration
	codes     map[int]int64
}

func newBenchStats() *benchStats {
	return &benchStats{
		latencies: make([]time.Duration, 0, 100000),
		codes:     make(map[int]int64),
	}
}

func (s *benchStats) record(d time.Duration, code int, err error) {
	s.total.Add(1)
	if err != nil {
		s.failed.Add(1)
		return
	}
	if code >= 200 && code < 300 {
		s.success.Add(1)
	} else {
		s.failed.Add(1)
	}
	s.mu.Lock()
	s.latencies = append(s.latencies, d)
	s.codes[code]++
	s.mu.Unlock()
}

func newBenchCmd() *cobra.Command {
	cfg := benchConfig{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Generate lookup load against a running server",
		Long: `Send GET /api/lookup requests from concurrent workers for a fixed
duration, cycling through the queries and the three sort orders, then
print throughput, latency percentiles and status codes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.queries) == 0 {
				cfg.queries = defaultBenchQueries
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "target: %s  concurrency: %d  duration: %s  queries: %d\n",
				cfg.baseURL, cfg.concurrency, cfg.duration, len(cfg.queries))

			stats := runBench(cmd.Context(), cfg)
			printBenchReport(out, stats, cfg.duration)
			if stats.total.Load() == 0 {
				return fmt.Errorf("no requests completed; is the server running at %s?", cfg.baseURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.baseURL, "url", "http://localhost:8000", "base URL of the dictionary server")
	cmd.Flags().IntVar(&cfg.concurrency, "concurrency", 10, "number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.duration, "duration", 30*time.Second, "test duration")
	cmd.Flags().StringArrayVar(&cfg.queries, "query", nil, "query to send (repeatable, defaults to a built-in mix)")
	return cmd
}

func runBench(ctx context.Context, cfg benchConfig) *benchStats {
	stats := newBenchStats()
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.concurrency * 2,
			MaxIdleConnsPerHost: cfg.concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	defer client.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(ctx, cfg.duration)
	defer cancel()

	sorts := []string{"freq", "alpha", "alpha_rev"}
	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := worker; ctx.Err() == nil; i++ {
				q := url.Values{}
				q.Set("q", cfg.queries[i%len(cfg.queries)])
				q.Set("sort", sorts[i%len(sorts)])
				q.Set("exact", fmt.Sprint(i%2 == 0))
				q.Set("limit", "20")

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.baseURL+"/api/lookup?"+q.Encode(), nil)
				if err != nil {
					stats.record(0, 0, err)
					return
				}
				start := time.Now()
				resp, err := client.Do(req)
				elapsed := time.Since(start)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					stats.record(elapsed, 0, err)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				stats.record(elapsed, resp.StatusCode, nil)
			}
		}(w)
	}
	wg.Wait()
	return stats
}

func printBenchReport(w io.Writer, stats *benchStats, duration time.Duration) {
	total := stats.total.Load()
	fmt.Fprintf(w, "requests: %d  ok: %d  failed: %d\n", total, stats.success.Load(), stats.failed.Load())
	if total > 0 {
		fmt.Fprintf(w, "throughput: %.1f req/s\n", float64(total)/duration.Seconds())
	}

	stats.mu.Lock()
	latencies := append([]time.Duration(nil), stats.latencies...)
	codes := make([]int, 0, len(stats.codes))
	for code := range stats.codes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "status %d: %d\n", code, stats.codes[code])
	}
	stats.mu.Unlock()

	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	fmt.Fprintf(w, "latency min %s  avg %s  p50 %s  p95 %s  p99 %s  max %s\n",
		latencies[0],
		sum/time.Duration(len(latencies)),
		latencyPercentile(latencies, 50),
		latencyPercentile(latencies, 95),
		latencyPercentile(latencies, 99),
		latencies[len(latencies)-1],
	)
}

func latencyPercentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}
