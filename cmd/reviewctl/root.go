package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"reviewlens/internal/adapters/observability"
	"reviewlens/internal/bootstrap"
	"reviewlens/internal/domain"
	"reviewlens/internal/shared"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "reviewctl",
		Short:        "Analyze product reviews from files, Shopify stores and feeds",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "info"
			if ro.verbose {
				level = "debug"
			}
			log.Logger = observability.NewLoggerTo(cmd.ErrOrStderr(), "dev", level)
		},
	}
	cmd.PersistentFlags().StringVarP(&ro.configFile, "config", "c", "", "YAML config file (same keys as the environment)")
	cmd.PersistentFlags().BoolVarP(&ro.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newAnalyzeCmd(ro), newAskCmd(ro), newExportCmd(ro), newFetchCmd(ro))
	return cmd
}

func (ro *rootOptions) build(ctx context.Context) (*bootstrap.App, error) {
	if ro.configFile != "" {
		if err := os.Setenv("REVIEWLENS_CONFIG", ro.configFile); err != nil {
			return nil, err
		}
	}
	cfg, err := shared.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return bootstrap.Build(ctx, cfg, bootstrap.Options{})
}

// dateRangeFlags parses --from/--to; both or neither must be set.
func dateRangeFlags(from, to string) (*domain.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("--from and --to must be given together")
	}
	dr, err := domain.ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return &dr, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
