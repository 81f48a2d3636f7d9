package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/dictionary/index"
)

// EncodeWords writes entries in the words.json format.
func EncodeWords(w io.Writer, entries []dictionary.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}

// EncodeTerms writes terms in the index.json format.
func EncodeTerms(w io.Writer, terms *index.TermIndex) error {
	out := make(map[string][2]any, terms.Len())
	terms.Each(func(id int, term index.Term) {
		out[strconv.Itoa(id)] = [2]any{term.Canonical, term.Entries.Sorted()}
	})
	return json.NewEncoder(w).Encode(out)
}

// EncodeLetters writes letters in the word_dict.json format.
func EncodeLetters(w io.Writer, letters *index.LetterIndex) error {
	out := make(map[string][]int, letters.Len())
	for _, r := range letters.Letters() {
		out[string(r)] = letters.Terms(r).Sorted()
	}
	return json.NewEncoder(w).Encode(out)
}

// WriteFile writes through encode to a temporary file next to path and
// renames it into place, so readers never observe a partial artifact.
func WriteFile(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", path, err)
	}
	return nil
}
