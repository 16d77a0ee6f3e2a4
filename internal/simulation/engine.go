package simulation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
	"github.com/aws-samples/actuarial-reserve-modelling/internal/progress"
)

// DefaultTrials is the number of trials when none is configured.
const DefaultTrials = 10_000

// BlockSize is the number of consecutive trials sharing one entropy stream.
const BlockSize = 256

// Config holds engine configuration.
type Config struct {
	Trials     int             // number of trials, 0 means DefaultTrials
	Workers    int             // goroutines running blocks, 0 means GOMAXPROCS
	ClaimModel ClaimCountModel // nil means ExponentialClaimCount{DefaultClaimInterval}
	Severity   SeverityModel   // nil means DefaultSeverity
	Entropy    Entropy         // zero value means NewEntropy()
	Progress   progress.Callback
}

// Result is the outcome of a simulation run. Mean is the reserve estimate;
// the other fields describe how it was produced.
type Result struct {
	Mean       float64
	Trials     int
	Policies   int
	Workers    int
	Seed       uint64
	Seeded     bool
	ClaimModel string
	Elapsed    time.Duration
}

// Engine runs independent trials and averages their reserves.
type Engine struct {
	trials   int
	workers  int
	counts   ClaimCountModel
	entropy  Entropy
	progress progress.Callback
	runner   *TrialRunner
	log      zerolog.Logger
}

// NewEngine validates cfg and returns an engine.
func NewEngine(cfg Config, log zerolog.Logger) (*Engine, error) {
	if cfg.Trials < 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	if cfg.Trials == 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ClaimModel == nil {
		cfg.ClaimModel = ExponentialClaimCount{Interval: DefaultClaimInterval}
	}
	if cfg.Severity == nil {
		cfg.Severity = DefaultSeverity
	}
	if err := cfg.Severity.Validate(); err != nil {
		return nil, err
	}
	if cfg.Entropy.IsZero() {
		cfg.Entropy = NewEntropy()
	}

	return &Engine{
		trials:   cfg.Trials,
		workers:  cfg.Workers,
		counts:   cfg.ClaimModel,
		entropy:  cfg.Entropy,
		progress: cfg.Progress,
		runner:   NewTrialRunner(cfg.ClaimModel, cfg.Severity),
		log:      log.With().Str("component", "simulation_engine").Logger(),
	}, nil
}

// Run simulates the portfolio and returns the mean trial reserve.
// The context is checked between trials; cancellation returns ctx.Err().
func (e *Engine) Run(ctx context.Context, policies []domain.Policy) (Result, error) {
	start := time.Now()

	numBlocks := (e.trials + BlockSize - 1) / BlockSize
	workers := e.workers
	if numBlocks < workers {
		workers = numBlocks // Don't spawn more workers than blocks
	}

	e.log.Debug().
		Int("policies", len(policies)).
		Int("trials", e.trials).
		Int("blocks", numBlocks).
		Int("workers", workers).
		Str("claim_model", e.counts.Name()).
		Bool("seeded", e.entropy.Seeded()).
		Msg("Starting simulation")

	sums, err := e.runBlocks(ctx, policies, numBlocks, workers)
	if err != nil {
		return Result{}, err
	}

	total := 0.0
	for _, s := range sums {
		total += s
	}

	result := Result{
		Mean:       total / float64(e.trials),
		Trials:     e.trials,
		Policies:   len(policies),
		Workers:    workers,
		Seed:       e.entropy.Seed(),
		Seeded:     e.entropy.Seeded(),
		ClaimModel: e.counts.Name(),
		Elapsed:    time.Since(start),
	}

	e.log.Debug().
		Float64("mean", result.Mean).
		Dur("elapsed", result.Elapsed).
		Msg("Simulation finished")

	return result, nil
}

// runBlocks distributes blocks over workers and returns per-block sums
// indexed by block number.
func (e *Engine) runBlocks(ctx context.Context, policies []domain.Policy, numBlocks, workers int) ([]float64, error) {
	sums := make([]float64, numBlocks)
	tracker := progress.NewTracker(e.trials, e.progress)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for b := range jobs {
				sum, n, err := e.runBlock(gctx, policies, b)
				if err != nil {
					return err
				}
				sums[b] = sum
				tracker.Add(n, "Running trials")
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for b := 0; b < numBlocks; b++ {
			select {
			case jobs <- b:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		// The feeder reports the group's own cancellation; prefer the cause.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	return sums, nil
}

// runBlock runs the trials of block b sequentially on the block's stream.
func (e *Engine) runBlock(ctx context.Context, policies []domain.Policy, b int) (float64, int, error) {
	first := b * BlockSize
	last := min(first+BlockSize, e.trials)
	src := e.entropy.Stream(b)

	sum := 0.0
	for t := first; t < last; t++ {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		reserve, err := e.runner.Run(policies, src)
		if err != nil {
			return 0, 0, fmt.Errorf("trial %d: %w", t, err)
		}
		sum += reserve
	}

	return sum, last - first, nil
}

// IsInvalidParameter reports whether err was caused by an invalid
// distribution parameter.
func IsInvalidParameter(err error) bool {
	var paramErr *domain.InvalidParameterError
	return errors.As(err, &paramErr)
}
