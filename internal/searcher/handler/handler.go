// Package handler exposes the lookup service over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/service"
	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/logger"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func New(svc *service.Service) *Handler {
	return &Handler{
		service: svc,
		logger:  slog.Default().With("component", "lookup-handler"),
	}
}

// Lookup serves GET /api/lookup?q=&filter=&sort=&limit=&exact=.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	params, err := lookupParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.service.Lookup(r.Context(), params, service.TransportHTTP)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func lookupParams(r *http.Request) (service.LookupParams, error) {
	q := r.URL.Query()
	params := service.LookupParams{
		Query:  q.Get("q"),
		Filter: q.Get("filter"),
		Sort:   q.Get("sort"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, apperrors.InvalidInputf("limit must be an integer, got '%s'", v)
		}
		params.Limit = &n
	}
	if v := q.Get("exact"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return params, apperrors.InvalidInputf("exact must be a boolean, got '%s'", v)
		}
		params.Exact = &b
	}
	return params, nil
}

type highlightRequest struct {
	Text           string   `json:"text"`
	Query          string   `json:"query,omitempty"`
	LiteralPhrases []string `json:"literalPhrases,omitempty"`
	FuzzyWords     []string `json:"fuzzyWords,omitempty"`
}

type highlightResponse struct {
	Highlighted string `json:"highlighted"`
}

// Highlight serves POST /api/highlight.
func (h *Handler) Highlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInputf("invalid request body: %v", err))
		return
	}
	out, err := h.service.Highlight(r.Context(), service.HighlightParams{
		Text:           req.Text,
		Query:          req.Query,
		LiteralPhrases: req.LiteralPhrases,
		FuzzyWords:     req.FuzzyWords,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, highlightResponse{Highlighted: out})
}

// PartsOfSpeech serves GET /api/parts-of-speech.
func (h *Handler) PartsOfSpeech(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"partsOfSpeech": h.service.PartsOfSpeech()})
}

// CacheStats serves GET /api/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if !h.service.CacheEnabled() {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses, breaker, err := h.service.CacheStats()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
		"breaker":  breaker,
	})
}

// CacheInvalidate serves POST /api/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.InvalidateCache(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": n})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// writeError maps err to a status and a client-safe {"detail": ...} body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatusCode(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, apperrors.ErrUnavailable) {
		logger.FromContext(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, map[string]string{"detail": apperrors.Message(err)})
}
