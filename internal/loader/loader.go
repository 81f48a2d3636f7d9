// Package loader reads the three dictionary artifacts from disk and
// assembles them into a dictionary.Dictionary.
//
// Artifact formats:
//
//	words.json      [{"index":1,"word":"кіт","pos":"noun","defs":[...],"freq":5432,"forms":{...}}, ...]
//	index.json      {"<termID>": ["<canonical form>", [entryID, ...]], ...}
//	word_dict.json  {"<letter>": [termID, ...], ...}
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/errors"
)

// Load reads the three artifacts named by cfg in parallel. Any missing or
// malformed artifact fails the whole load with an error wrapping
// errors.ErrDataLoad.
func Load(ctx context.Context, cfg config.DataConfig) (*dictionary.Dictionary, error) {
	start := time.Now()
	log := slog.Default().With("component", "loader")

	var (
		entries []dictionary.Entry
		terms   *index.TermIndex
		letters *index.LetterIndex
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = readFile(ctx, cfg.WordsPath(), DecodeWords)
		return err
	})
	g.Go(func() error {
		var err error
		terms, err = readFile(ctx, cfg.IndexPath(), DecodeTerms)
		return err
	})
	g.Go(func() error {
		var err error
		letters, err = readFile(ctx, cfg.LettersPath(), DecodeLetters)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dict := dictionary.New(entries, terms, letters)
	log.Info("dictionary loaded",
		"entries", dict.Store.Len(),
		"terms", terms.Len(),
		"letters", letters.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return dict, nil
}

func readFile[T any](ctx context.Context, path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: opening %s: %v", apperrors.ErrDataLoad, path, err)
	}
	defer f.Close()
	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", apperrors.ErrDataLoad, path, err)
	}
	return v, nil
}

// DecodeWords parses an entry collection.
func DecodeWords(r io.Reader) ([]dictionary.Entry, error) {
	var entries []dictionary.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return entries, nil
}

// DecodeTerms parses a term index. Every value must be a two-element array
// of a canonical form and a list of entry ids.
func DecodeTerms(r io.Reader) (*index.TermIndex, error) {
	var raw map[string][]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding term index: %w", err)
	}
	terms := make(map[int]index.Term, len(raw))
	for key, pair := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("term id %q is not an integer", key)
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("term %d: expected [form, [ids]], got %d elements", id, len(pair))
		}
		var term index.Term
		if err := json.Unmarshal(pair[0], &term.Canonical); err != nil {
			return nil, fmt.Errorf("term %d: canonical form: %w", id, err)
		}
		var ids []int
		if err := json.Unmarshal(pair[1], &ids); err != nil {
			return nil, fmt.Errorf("term %d: entry ids: %w", id, err)
		}
		term.Entries = index.NewIDSet(ids...)
		terms[id] = term
	}
	return index.NewTermIndex(terms), nil
}

// DecodeLetters parses a letter index. Keys must be exactly one character.
func DecodeLetters(r io.Reader) (*index.LetterIndex, error) {
	var raw map[string][]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding letter index: %w", err)
	}
	letters := make(map[rune]index.IDSet, len(raw))
	for key, ids := range raw {
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("letter key %q must be a single character", key)
		}
		r, _ := utf8.DecodeRuneInString(key)
		letters[r] = index.Union(letters[r], index.NewIDSet(ids...))
	}
	return index.NewLetterIndex(letters), nil
}
