package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/rpcapi"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/service"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/proto"
)

func newLookupCmd(opts *options) *cobra.Command {
	var req proto.LookupRequest
	var limit int
	var exact bool

	cmd := &cobra.Command{
		Use:   "lookup [query...]",
		Short: "Look up words and phrases",
		Long: `Look up dictionary entries. Words are matched by prefix; text in double
quotes must appear as a phrase in a definition or match a form exactly.
With no query every entry is listed, subject to --filter, --sort and --limit.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Query = strings.Join(args, " ")
			if cmd.Flags().Changed("limit") {
				req.Limit = &limit
			}
			if cmd.Flags().Changed("exact") {
				req.Exact = &exact
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			resp, err := lookup(ctx, opts, req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&req.Filter, "filter", "", "part of speech to keep")
	cmd.Flags().StringVar(&req.Sort, "sort", "", "result order: freq, alpha or alpha_rev")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries")
	cmd.Flags().BoolVar(&exact, "exact", true, "keep only headwords equal to the query")
	return cmd
}

func lookup(ctx context.Context, opts *options, req proto.LookupRequest) (proto.LookupResponse, error) {
	var resp proto.LookupResponse
	if opts.remote != "" {
		client, err := opts.dial(ctx)
		if err != nil {
			return resp, err
		}
		defer client.Close()
		err = client.Call(ctx, proto.MethodLookup, req, &resp)
		return resp, err
	}

	svc, err := opts.localService(ctx)
	if err != nil {
		return resp, err
	}
	result, err := svc.Lookup(ctx, service.LookupParams{
		Query:  req.Query,
		Filter: req.Filter,
		Sort:   req.Sort,
		Limit:  req.Limit,
		Exact:  req.Exact,
	}, service.TransportCLI)
	if err != nil {
		return resp, err
	}
	return rpcapi.ToLookupResponse(result), nil
}
