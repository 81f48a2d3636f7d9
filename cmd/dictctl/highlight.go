package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/service"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/proto"
)

func newHighlightCmd(opts *options) *cobra.Command {
	var req proto.HighlightRequest

	cmd := &cobra.Command{
		Use:   "highlight [text...]",
		Short: "Mark query terms in text",
		Long: `Mark the terms of --query (or of --phrase/--word) in the given text.
When no text argument is given the text is read from standard input.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				req.Text = strings.Join(args, " ")
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading text: %w", err)
				}
				req.Text = string(data)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			out, err := highlight(ctx, opts, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Query, "query", "q", "", "query whose terms are marked")
	cmd.Flags().StringArrayVar(&req.LiteralPhrases, "phrase", nil, "literal phrase to mark (repeatable)")
	cmd.Flags().StringArrayVar(&req.FuzzyWords, "word", nil, "word prefix to mark (repeatable)")
	return cmd
}

func highlight(ctx context.Context, opts *options, req proto.HighlightRequest) (string, error) {
	if opts.remote != "" {
		client, err := opts.dial(ctx)
		if err != nil {
			return "", err
		}
		defer client.Close()
		var resp proto.HighlightResponse
		if err := client.Call(ctx, proto.MethodHighlight, req, &resp); err != nil {
			return "", err
		}
		return resp.Highlighted, nil
	}

	svc, err := opts.localService(ctx)
	if err != nil {
		return "", err
	}
	return svc.Highlight(ctx, service.HighlightParams{
		Text:           req.Text,
		Query:          req.Query,
		LiteralPhrases: req.LiteralPhrases,
		FuzzyWords:     req.FuzzyWords,
	})
}
