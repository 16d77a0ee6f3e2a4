package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/config"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/database"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/history"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/portfolio"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/progress"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/reserves"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/simulation"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/utils"
)

// publisher uploads a finished reserve
type publisher interface {
	Publish(ctx context.Context, runID string, v float64) (string, error)
}

type runner struct {
	cfg       *config.Config
	log       zerolog.Logger
	publisher publisher // nil disables uploads
}

// run estimates the reserve for the portfolio at input and writes it to
// output. Nothing is written unless the simulation succeeds.
func (r *runner) run(ctx context.Context, input, output string) (simulation.Result, error) {
	start := time.Now()
	runID := history.NewRunID()
	log := r.log.With().Str("run_id", runID).Logger()
	phases := utils.NewPhases(log)

	host := config.ProbeHost(log)
	log.Info().
		Int("logical_cpus", host.LogicalCPUs).
		Int("physical_cpus", host.PhysicalCPUs).
		Uint64("total_memory", host.TotalMemory).
		Float64("memory_used_pct", host.UsedPercent).
		Msg("Starting reserve estimation")

	inputPath := r.cfg.InputPath(input)
	outputPath := r.cfg.OutputPath(output)

	policies, err := portfolio.NewLoader(log).LoadFile(inputPath)
	if err != nil {
		return simulation.Result{}, err
	}
	log.Info().
		Str("input", inputPath).
		Int("policies", len(policies)).
		Dur("elapsed", phases.Mark("load")).
		Msg("Portfolio loaded")

	if dups := domain.NewPolicyIndex(policies).Duplicates(); len(dups) > 0 {
		log.Warn().Strs("policy_ids", dups).Msg("Duplicate policy ids in portfolio, every row is simulated")
	}

	claimModel, err := r.cfg.ClaimCountModel()
	if err != nil {
		return simulation.Result{}, err
	}

	entropy := r.cfg.Entropy()
	if !entropy.Seeded() {
		log.Info().Uint64("seed", entropy.Seed()).Msg("No seed configured, set SIMULATION_SEED to replay this run")
	}

	engine, err := simulation.NewEngine(simulation.Config{
		Trials:     r.cfg.Trials,
		Workers:    r.cfg.Workers,
		ClaimModel: claimModel,
		Entropy:    entropy,
		Progress:   progress.LogCallback(log, 10),
	}, log)
	if err != nil {
		return simulation.Result{}, err
	}

	result, err := engine.Run(ctx, policies)
	if err != nil {
		return simulation.Result{}, err
	}
	phases.Mark("simulate")

	if err := reserves.WriteFile(outputPath, result.Mean); err != nil {
		return simulation.Result{}, err
	}
	phases.Mark("write")

	var resultURI string
	if r.publisher != nil {
		resultURI, err = r.publisher.Publish(ctx, runID, result.Mean)
		if err != nil {
			return simulation.Result{}, err
		}
		phases.Mark("publish")
	}

	log.Info().
		Str("reserve", reserves.FormatReserve(result.Mean)).
		Str("output", outputPath).
		Int("trials", result.Trials).
		Int("workers", result.Workers).
		Str("claim_model", result.ClaimModel).
		Uint64("seed", result.Seed).
		Dict("timings", phases.Dict()).
		Msg("Reserve estimation complete")

	r.record(ctx, log, history.Run{
		ID:         runID,
		StartedAt:  start,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Policies:   result.Policies,
		Trials:     result.Trials,
		Workers:    result.Workers,
		ClaimModel: result.ClaimModel,
		Seed:       result.Seed,
		Seeded:     result.Seeded,
		Mean:       result.Mean,
		Elapsed:    result.Elapsed,
		ResultURI:  resultURI,
	})

	return result, nil
}

// record stores the run summary when history is enabled. Failures are
// logged; the written result stands.
func (r *runner) record(ctx context.Context, log zerolog.Logger, run history.Run) {
	if r.cfg.HistoryDB == "" {
		return
	}

	db, err := database.New(database.Config{
		Path:    r.cfg.HistoryDB,
		Profile: database.ProfileLedger,
		Name:    "history",
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open history database")
		return
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Warn().Err(err).Msg("Failed to migrate history database")
		return
	}

	if _, err := history.NewRepository(db.Conn(), log).Record(ctx, run); err != nil {
		log.Warn().Err(err).Msg("Failed to record run history")
	}
}
