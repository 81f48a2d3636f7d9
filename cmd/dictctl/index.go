package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/loader"
)

func newIndexCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the term and letter indexes from the entry collection",
		Long: `Read the entry collection and write fresh term and letter indexes next
to it. Existing index files are replaced atomically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}

			f, err := os.Open(cfg.Data.WordsPath())
			if err != nil {
				return fmt.Errorf("opening entries: %w", err)
			}
			entries, err := loader.DecodeWords(f)
			f.Close()
			if err != nil {
				return err
			}

			terms, letters, stats := indexer.Build(entries)
			if err := loader.WriteFile(cfg.Data.IndexPath(), func(w io.Writer) error {
				return loader.EncodeTerms(w, terms)
			}); err != nil {
				return err
			}
			if err := loader.WriteFile(cfg.Data.LettersPath(), func(w io.Writer) error {
				return loader.EncodeLetters(w, letters)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d entries: %d terms, %d letters in %s\n",
				stats.Entries, stats.Terms, stats.Letters, stats.Duration)
			return nil
		},
	}
}
