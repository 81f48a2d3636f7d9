package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/loader"
)

func newValidateCmd(opts *options) *cobra.Command {
	var asJSON bool
	var maxIssues int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the dictionary artifacts for consistency",
		Long: `Load the three artifacts and cross-check them: every term must be filed
under each of its letters, every referenced entry and term must exist,
and entry ids must be unique. Exits non-zero when any issue is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			dict, err := loader.Load(cmd.Context(), cfg.Data)
			if err != nil {
				return err
			}
			report := loader.Validate(dict)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "entries: %d\nterms:   %d\nletters: %d\n", report.Entries, report.Terms, report.Letters)
				counts := report.Counts()
				kinds := make([]string, 0, len(counts))
				for k := range counts {
					kinds = append(kinds, k)
				}
				sort.Strings(kinds)
				for _, k := range kinds {
					fmt.Fprintf(out, "%s: %d\n", k, counts[k])
				}
				for i, is := range report.Issues {
					if maxIssues > 0 && i >= maxIssues {
						fmt.Fprintf(out, "... %d more\n", len(report.Issues)-i)
						break
					}
					fmt.Fprintf(out, "  [%s] %s\n", is.Kind, is.Message)
				}
			}

			if !report.OK() {
				return fmt.Errorf("found %d issues", len(report.Issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&maxIssues, "max-issues", 50, "maximum issues to list (0 for all)")
	return cmd
}
