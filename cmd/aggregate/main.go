// Package main is the entry point for the reserve aggregation command.
// It sums the reserve files written by independent simulation jobs, read
// either from an S3 prefix or from a shared directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/aggregate"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/config"
	"github.com/aws-samples/actuarial-reserve-modelling/pkg/logger"
)

type flags struct {
	bucket      string
	prefix      string
	dir         string
	region      string
	concurrency int
	logLevel    string
}

func newRootCmd() *cobra.Command {
	var (
		f   flags
		cfg *config.AggregateConfig
	)

	cmd := &cobra.Command{
		Use:   "aggregate (--bucket B [--prefix P] | --dir D)",
		Short: "Sum the reserve files produced by simulation jobs",
		Long: `Sum the reserve files produced by simulation jobs.

Every non-empty object whose key ends in .txt is read as one reserve. The
exact total is printed on stdout; the number of files and their spread are
logged.

Settings default to RESULT_BUCKET, RESULT_PREFIX, RESULT_DIR, AWS_REGION,
AGGREGATE_CONCURRENCY and LOG_LEVEL (and an optional .env file).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadAggregate()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return applyFlags(cmd, cfg, f)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.Config{Level: cfg.LogLevel})

			var src aggregate.Source
			if cfg.Dir != "" {
				src = aggregate.DirSource{Dir: cfg.Dir}
			} else {
				client, err := config.NewS3Client(cmd.Context(), cfg.Region)
				if err != nil {
					return err
				}
				src = aggregate.NewS3Source(client, cfg.Bucket, cfg.Prefix)
			}

			return run(cmd.Context(), src, cfg.Concurrency, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVar(&f.bucket, "bucket", "", "S3 bucket holding reserve files (RESULT_BUCKET)")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "key prefix of reserve files (RESULT_PREFIX)")
	cmd.Flags().StringVar(&f.dir, "dir", "", "local directory holding reserve files (RESULT_DIR)")
	cmd.Flags().StringVar(&f.region, "region", "", "AWS region (AWS_REGION)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "files read in parallel (AGGREGATE_CONCURRENCY)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	return cmd
}

// applyFlags overrides cfg with the flags given on the command line. A
// source flag replaces the other source so --dir wins over RESULT_BUCKET.
func applyFlags(cmd *cobra.Command, cfg *config.AggregateConfig, f flags) error {
	changed := cmd.Flags().Changed
	if changed("bucket") {
		cfg.Bucket = f.bucket
		if !changed("dir") {
			cfg.Dir = ""
		}
	}
	if changed("dir") {
		cfg.Dir = f.dir
		if !changed("bucket") {
			cfg.Bucket = ""
		}
	}
	if changed("prefix") {
		cfg.Prefix = f.prefix
	}
	if changed("region") {
		cfg.Region = f.region
	}
	if changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return cfg.Validate()
}

// run aggregates src and prints the total to out
func run(ctx context.Context, src aggregate.Source, concurrency int, out io.Writer, log zerolog.Logger) error {
	summary, err := aggregate.New(concurrency, log).Aggregate(ctx, src)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, summary.Total.String())
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log := logger.New(logger.Config{Level: "info"})
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("Reserve aggregation failed")
		stop()
		os.Exit(1)
	}
}
