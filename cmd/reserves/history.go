package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/config"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/database"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/history"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/reserves"
	"github.com/aws-samples/actuarial-reserve-modelling/pkg/logger"
)

const defaultHistoryLimit = 20

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		historyDB string
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List runs recorded in the history database",
		Long: `List the most recent runs recorded in the history database, newest first.
With a run id, show only that run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("history-db") {
				cfg.HistoryDB = historyDB
			}
			if cfg.HistoryDB == "" {
				return fmt.Errorf("no history database configured, set HISTORY_DB or --history-db")
			}

			log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return listHistory(cmd.Context(), cfg.HistoryDB, id, limit, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "number of runs to list")
	cmd.Flags().StringVar(&historyDB, "history-db", "", "sqlite file recording run summaries (HISTORY_DB)")

	return cmd
}

// listHistory prints the run with the given id, or the latest limit runs
// when id is empty.
func listHistory(ctx context.Context, path, id string, limit int, out io.Writer, log zerolog.Logger) error {
	db, err := database.New(database.Config{
		Path:    path,
		Profile: database.ProfileLedger,
		Name:    "history",
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	repo := history.NewRepository(db.Conn(), log)

	var runs []history.Run
	if id != "" {
		run, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found", id)
		}
		runs = []history.Run{*run}
	} else {
		runs, err = repo.Recent(ctx, limit)
		if err != nil {
			return err
		}
	}

	return printRuns(out, runs)
}

func printRuns(out io.Writer, runs []history.Run) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tPOLICIES\tTRIALS\tMODEL\tSEED\tRESERVE\tELAPSED\tRESULT")
	for _, run := range runs {
		seed := strconv.FormatUint(run.Seed, 10)
		if !run.Seeded {
			seed += " (random)"
		}
		result := run.ResultURI
		if result == "" {
			result = run.OutputPath
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.StartedAt.UTC().Format(time.RFC3339),
			run.Policies,
			run.Trials,
			run.ClaimModel,
			seed,
			reserves.FormatReserve(run.Mean),
			run.Elapsed,
			result,
		)
	}
	return w.Flush()
}
