package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/vendcheck/pkg/batch"
	"github.com/openfroyo/vendcheck/pkg/inventory"
	"github.com/openfroyo/vendcheck/pkg/machine"
	"github.com/openfroyo/vendcheck/pkg/stores"
)

func newRunCommand() *cobra.Command {
	var (
		inputDir      string
		outputDir     string
		workers       int
		watch         bool
		allowNegative bool
		strict        bool
		metricsAddr   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every machine record in the input directory",
		Long: `Evaluate every machine record (.json, .yaml, .yml) in the input directory
and write one report per record to the output directory.

The output directory is removed and recreated at the start of every run.
Records that cannot be read or decoded are logged and skipped; the rest of
the batch continues.`,
		Example: `  # Evaluate ./testCases into ./outputFiles
  vendcheck run

  # Custom directories and more workers
  vendcheck run --input machines --output reports --workers 8

  # Keep watching the input directory after the first pass
  vendcheck run --watch

  # Validate records against the machine schema before decoding
  vendcheck run --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.InputDir = inputDir
			}
			if flags.Changed("output") {
				cfg.OutputDir = outputDir
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if allowNegative {
				cfg.DeductionPolicy = inventory.AllowNegative.String()
			}
			if flags.Changed("metrics-addr") {
				cfg.Telemetry.Metrics.ListenAddress = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			tel, err := newTelemetry(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialise telemetry: %w", err)
			}
			defer shutdownTelemetry(context.Background(), tel)

			if err := tel.StartMetricsServer(); err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}

			ctx := tel.WithContext(cmd.Context())

			store, err := stores.NewFileStore(cfg.InputDir, cfg.OutputDir,
				tel.Logger.NewComponentLogger("store").Zerolog())
			if err != nil {
				return err
			}

			opts := []batch.Option{
				batch.WithWorkers(cfg.Workers),
				batch.WithEvaluator(inventory.NewEvaluator(
					inventory.WithDeductionPolicy(cfg.Policy()),
				)),
				batch.WithTelemetry(tel),
			}
			if strict {
				opts = append(opts, batch.WithSchemaRegistry(machine.NewSchemaRegistry()))
			}
			runner := batch.NewRunner(store, opts...)

			summary, err := runner.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			if err := printSummary(cmd.OutOrStdout(), summary); err != nil {
				return err
			}

			if !watch || ctx.Err() != nil {
				return nil
			}

			// Export the first pass before blocking on the watcher.
			if err := tel.Flush(ctx); err != nil {
				tel.Logger.WithError(err).Warn("Failed to flush telemetry")
			}

			if err := runner.Watch(ctx, store, stores.DefaultWatchDelay); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "directory of machine records (default \"testCases\")")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "report directory, recreated on every run (default \"outputFiles\")")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of records evaluated concurrently (default 4)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and re-evaluate records as they change")
	cmd.Flags().BoolVar(&allowNegative, "allow-negative", false, "let deductions drive quantities below zero")
	cmd.Flags().BoolVar(&strict, "strict", false, "validate records against the machine schema before decoding")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func printSummary(w io.Writer, s *batch.Summary) error {
	if jsonOutput {
		return writeJSON(w, s)
	}

	fmt.Fprintf(w, "Run %s: %d records, %d succeeded, %d failed (%d prepared, %d rejected) in %s\n",
		s.RunID, s.Files, s.Succeeded, s.Failed, s.Prepared, s.Rejected, s.Duration.Round(time.Millisecond))
	for _, fe := range s.Errors {
		fmt.Fprintf(w, "  skipped %s\n", fe)
	}
	return nil
}
