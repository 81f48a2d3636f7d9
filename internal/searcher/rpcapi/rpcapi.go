// Package rpcapi exposes the lookup service over pkg/rpc.
package rpcapi

import (
	"context"
	"encoding/json"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/service"
	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/proto"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/rpc"
)

// Register installs the Dictionary.* methods on s.
func Register(s *rpc.Server, svc *service.Service) {
	s.Register(proto.MethodLookup, func(ctx context.Context, params json.RawMessage) (any, error) {
		var req proto.LookupRequest
		if err := decode(params, &req); err != nil {
			return nil, err
		}
		result, err := svc.Lookup(ctx, service.LookupParams{
			Query:  req.Query,
			Filter: req.Filter,
			Sort:   req.Sort,
			Limit:  req.Limit,
			Exact:  req.Exact,
		}, service.TransportRPC)
		if err != nil {
			return nil, err
		}
		return ToLookupResponse(result), nil
	})

	s.Register(proto.MethodHighlight, func(ctx context.Context, params json.RawMessage) (any, error) {
		var req proto.HighlightRequest
		if err := decode(params, &req); err != nil {
			return nil, err
		}
		out, err := svc.Highlight(ctx, service.HighlightParams{
			Text:           req.Text,
			Query:          req.Query,
			LiteralPhrases: req.LiteralPhrases,
			FuzzyWords:     req.FuzzyWords,
		})
		if err != nil {
			return nil, err
		}
		return proto.HighlightResponse{Highlighted: out}, nil
	})

	s.Register(proto.MethodPartsOfSpeech, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return proto.PartsOfSpeechResponse{PartsOfSpeech: svc.PartsOfSpeech()}, nil
	})

	s.Register(proto.MethodStats, func(ctx context.Context, _ json.RawMessage) (any, error) {
		entries, terms, letters := svc.DictionaryStats()
		return proto.StatsResponse{
			Entries:      entries,
			Terms:        terms,
			Letters:      letters,
			CacheEnabled: svc.CacheEnabled(),
		}, nil
	})
}

// ToLookupResponse converts an executor result to its wire form. Data is
// never nil; the term lists keep their nil-ness.
func ToLookupResponse(r *executor.Result) proto.LookupResponse {
	resp := proto.LookupResponse{
		Data:           make([]proto.Entry, 0, len(r.Data)),
		LiteralPhrases: r.LiteralPhrases,
		FuzzyWords:     r.FuzzyWords,
		TotalMatches:   r.TotalMatches,
	}
	for _, e := range r.Data {
		resp.Data = append(resp.Data, proto.Entry{
			ID:           e.ID,
			Headword:     e.Headword,
			PartOfSpeech: e.PartOfSpeech,
			Info:         e.Info,
			Definitions:  e.Definitions,
			Frequency:    e.Frequency,
			Forms:        e.Forms,
			FormsKind:    string(e.FormsKind),
		})
	}
	return resp
}

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return apperrors.InvalidInputf("invalid params: %v", err)
	}
	return nil
}
