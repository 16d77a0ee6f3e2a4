// Package main is the entry point for the reserve estimation command.
// It loads a policy portfolio, runs the Monte Carlo claim simulation and
// writes the expected reserve to a text file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/config"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/reserves"
	"github.com/aws-samples/actuarial-reserve-modelling/pkg/logger"
)

// flags overriding the environment configuration
type flags struct {
	trials     int
	interval   float64
	seed       uint64
	workers    int
	claimModel string
	historyDB  string
	upload     bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "reserves <input.csv> <output.txt>",
		Short: "Estimate the expected claim reserve of a policy portfolio",
		Long: `Estimate the expected claim reserve of a policy portfolio by Monte Carlo simulation.

Each trial draws a claim count for every policy from its term and a severity
for every claim; the reserve written to <output.txt> is the mean trial total.

Settings are read from the environment (and an optional .env file) and may be
overridden with flags. Relative paths are resolved against INPUT_DIR and
OUTPUT_DIR when those are set.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := applyFlags(cmd, cfg, f); err != nil {
				return err
			}

			log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
			logger.SetGlobalLogger(log)

			r := &runner{cfg: cfg, log: log}
			if f.upload || cfg.ResultBucket != "" {
				if cfg.ResultBucket == "" {
					return fmt.Errorf("--upload requires RESULT_BUCKET")
				}
				client, err := config.NewS3Client(cmd.Context(), cfg.AWSRegion)
				if err != nil {
					return err
				}
				r.publisher = reserves.NewS3Publisher(client, cfg.ResultBucket, cfg.ResultPrefix, log)
			}

			_, err = r.run(cmd.Context(), args[0], args[1])
			return err
		},
	}

	cmd.Flags().IntVar(&f.trials, "trials", 0, "number of simulation trials (NUM_SIMULATIONS)")
	cmd.Flags().Float64Var(&f.interval, "interval", 0, "claim interval in days (CLAIM_INTERVAL)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for a reproducible run (SIMULATION_SEED)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "worker goroutines (SIMULATION_WORKERS)")
	cmd.Flags().StringVar(&f.claimModel, "claim-model", "", "claim count model: exponential or poisson (CLAIM_COUNT_MODEL)")
	cmd.Flags().StringVar(&f.historyDB, "history-db", "", "sqlite file recording run summaries (HISTORY_DB)")
	cmd.Flags().BoolVar(&f.upload, "upload", false, "upload the result to RESULT_BUCKET")

	cmd.AddCommand(newHistoryCmd())

	return cmd
}

// applyFlags overrides cfg with the flags given on the command line and
// validates the result.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) error {
	changed := cmd.Flags().Changed
	if changed("trials") {
		cfg.Trials = f.trials
	}
	if changed("interval") {
		cfg.ClaimInterval = f.interval
	}
	if changed("seed") {
		cfg.Seed = f.seed
		cfg.SeedSet = true
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("claim-model") {
		cfg.ClaimModel = f.claimModel
	}
	if changed("history-db") {
		cfg.HistoryDB = f.historyDB
	}
	return cfg.Validate()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// The run logger may not exist yet, so build one for the diagnostic
		log := logger.New(logger.Config{Level: "info"})
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("Reserve estimation failed")
		stop()
		os.Exit(1)
	}
}
