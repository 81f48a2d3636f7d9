// Package cache stores lookup results in Redis, keyed by a hash of the
// normalised request. Concurrent misses for the same request share a single
// computation, and a circuit breaker stops the service from waiting on an
// unhealthy Redis: while it is open every lookup is computed directly.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/collate"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/resilience"
)

const keyPrefix = "lookup:"

var errMiss = errors.New("cache miss")

type LookupCache struct {
	client  *pkgredis.Client
	cfg     config.RedisConfig
	breaker *resilience.CircuitBreaker
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New returns a cache over client. m may be nil.
func New(client *pkgredis.Client, cfg config.RedisConfig, m *metrics.Metrics) *LookupCache {
	c := &LookupCache{
		client:  client,
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "lookup-cache"),
	}
	cbCfg := resilience.CircuitBreakerConfig{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
		IsFailure: func(err error) bool {
			return !errors.Is(err, errMiss)
		},
	}
	if m != nil {
		cbCfg.OnStateChange = func(name string, _, to resilience.State) {
			m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		}
	}
	c.breaker = resilience.NewCircuitBreaker("redis-cache", cbCfg)
	return c
}

// Get returns the cached result for req.
func (c *LookupCache) Get(ctx context.Context, req executor.Request) (*executor.Result, bool) {
	key := Key(req)
	var data []byte
	err := c.breaker.Execute(func() error {
		v, err := c.client.Get(ctx, key)
		if pkgredis.IsNilError(err) {
			return errMiss
		}
		data = v
		return err
	})
	if err != nil {
		if !errors.Is(err, errMiss) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var result executor.Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "query", req.Query, "key", key)
	return &result, true
}

// Set stores result under req with the configured TTL.
func (c *LookupCache) Set(ctx context.Context, req executor.Request, result *executor.Result) {
	key := Key(req)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, data, c.cfg.CacheTTL)
	})
	if err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for req, or computes, stores and
// returns it. The boolean reports a cache hit.
func (c *LookupCache) GetOrCompute(
	ctx context.Context,
	req executor.Request,
	computeFn func() (*executor.Result, error),
) (*executor.Result, bool, error) {
	start := time.Now()
	if result, ok := c.Get(ctx, req); ok {
		if c.metrics != nil {
			c.metrics.LookupLatency.WithLabelValues("hit").Observe(time.Since(start).Seconds())
		}
		return result, true, nil
	}
	key := Key(req)
	val, err, _ := c.group.Do(key, func() (any, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, req, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.Result), false, nil
}

// Invalidate removes every cached lookup and returns the number of keys
// deleted.
func (c *LookupCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.client.DeleteByPrefix(ctx, keyPrefix)
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

func (c *LookupCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// BreakerState reports the Redis circuit breaker state.
func (c *LookupCache) BreakerState() resilience.State {
	return c.breaker.GetState()
}

func (c *LookupCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// Key derives the cache key of req. Requests that parse to the same query
// share a key, and an empty sort is the same as freq. With exact matching on
// the trimmed raw query is used instead, since the exact filter compares it
// directly.
func Key(req executor.Request) string {
	sort := req.Sort
	if sort == "" {
		sort = collate.OrderFreq
	}
	query := parser.Parse(req.Query).Normalized
	if req.Exact {
		query = strings.ToLower(strings.TrimSpace(req.Query))
	}
	parts := []string{
		"q=" + query,
		"filter=" + req.PartOfSpeech,
		"sort=" + string(sort),
		"limit=" + strconv.Itoa(req.Limit),
		"exact=" + strconv.FormatBool(req.Exact),
	}
	if req.Query != "" && strings.TrimSpace(req.Query) == "" {
		// a blank query still reports empty term lists, an absent one null
		parts = append(parts, "blank")
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
