// Package router wires up the dictionary HTTP routes and applies the
// middleware chain (RequestID → CORS → RateLimit → Metrics → Timeout).
package router

import (
	"net/http"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/ratelimit"
)

// Deps are the components the router serves. Only Lookup is required.
type Deps struct {
	Lookup    *handler.Handler
	Analytics *analytics.Handler
	Health    *health.Checker
	Metrics   *metrics.Metrics
	Limiter   *ratelimit.Limiter
	// RequestsPerMinute applies when Limiter is set.
	RequestsPerMinute int
	// StaticDir is served at / when set.
	StaticDir string
	Timeout   time.Duration
}

// New builds the HTTP handler with all routes and middleware.
//
// Route table:
//
//	GET    /api/lookup                 → dictionary lookup
//	POST   /api/highlight              → mark query terms in text
//	GET    /api/parts-of-speech        → valid filter values
//	GET    /api/cache/stats            → result cache counters
//	POST   /api/cache/invalidate       → drop cached results
//	GET    /api/analytics              → aggregated lookup analytics
//	GET    /api/analytics/snapshots    → persisted analytics snapshots
//	GET    /health/live, /health/ready → probes
//	GET    /                           → static frontend
//
// Middleware chain (outermost first):
//
//	RequestID → CORS → RateLimit → Metrics → Timeout → mux
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/lookup", d.Lookup.Lookup)
	mux.HandleFunc("POST /api/highlight", d.Lookup.Highlight)
	mux.HandleFunc("GET /api/parts-of-speech", d.Lookup.PartsOfSpeech)

	mux.HandleFunc("GET /api/cache/stats", d.Lookup.CacheStats)
	mux.HandleFunc("POST /api/cache/invalidate", d.Lookup.CacheInvalidate)

	if d.Analytics != nil {
		mux.HandleFunc("GET /api/analytics", d.Analytics.Stats)
		mux.HandleFunc("GET /api/analytics/snapshots", d.Analytics.Snapshots)
	}

	if d.Health != nil {
		mux.HandleFunc("GET /health/live", d.Health.LiveHandler())
		mux.HandleFunc("GET /health/ready", d.Health.ReadyHandler())
	}

	if d.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(d.StaticDir)))
	}

	// applied inside-out
	var chain http.Handler = mux
	if d.Timeout > 0 {
		chain = middleware.Timeout(d.Timeout)(chain)
	}
	if d.Metrics != nil {
		chain = middleware.Metrics(d.Metrics)(chain)
	}
	if d.Limiter != nil {
		chain = middleware.RateLimit(d.Limiter, d.RequestsPerMinute, d.Metrics)(chain)
	}
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	return chain
}
