package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/loader"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/service"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/rpc"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	dataDir    string
	remote     string
	timeout    time.Duration
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "dictctl",
		Short: "Query and maintain the Ukrainian dictionary",
		Long: `dictctl looks words up in the Ukrainian dictionary, highlights query
terms in text, and validates or rebuilds the dictionary artifacts.

Lookups run against the local data directory unless --remote points at a
running dictionary server's RPC address.

Examples:
  dictctl lookup кіт
  dictctl lookup --exact=false --filter noun хат
  dictctl lookup --remote localhost:9000 '"стара хата"'
  dictctl highlight --query кіт "кіт і кит"
  dictctl validate --data-dir ./data
  dictctl index --data-dir ./data
  dictctl bench --url http://localhost:8000 --duration 10s`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), level, "text"))
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "override data.dir from config")
	root.PersistentFlags().StringVar(&opts.remote, "remote", "", "RPC address of a dictionary server")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for remote calls")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLookupCmd(opts),
		newHighlightCmd(opts),
		newValidateCmd(opts),
		newIndexCmd(opts),
		newBenchCmd(),
	)
	return root
}

func (o *options) config() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}
	return cfg, nil
}

// localService loads the dictionary and wraps it in a service without
// cache or analytics.
func (o *options) localService(ctx context.Context) (*service.Service, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	dict, err := loader.Load(ctx, cfg.Data)
	if err != nil {
		return nil, err
	}
	return service.New(executor.New(dict, cfg.Search, nil, nil), nil, nil, cfg.Search), nil
}

func (o *options) dial(ctx context.Context) (*rpc.Client, error) {
	client, err := rpc.Dial(ctx, o.remote)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", o.remote, err)
	}
	return client, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
