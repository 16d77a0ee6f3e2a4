package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// ResultSuffix marks reserve files; other objects are skipped.
const ResultSuffix = ".txt"

// DefaultConcurrency bounds simultaneous reads.
const DefaultConcurrency = 8

// Summary is the combined result of the reserve files under a source.
// Total is the exact sum of all files. Mean and StdDev describe the
// spread across files.
type Summary struct {
	Total   decimal.Decimal
	Files   int
	Skipped int
	Mean    float64
	StdDev  float64
}

// Aggregator sums reserve files
type Aggregator struct {
	concurrency int
	log         zerolog.Logger
}

// New creates an aggregator. concurrency <= 0 uses DefaultConcurrency.
func New(concurrency int, log zerolog.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{
		concurrency: concurrency,
		log:         log.With().Str("component", "aggregator").Logger(),
	}
}

// Aggregate reads every non-empty .txt object from src and sums the
// reserves they hold. Any unreadable or unparsable file fails the whole
// aggregation.
func (a *Aggregator) Aggregate(ctx context.Context, src Source) (Summary, error) {
	objects, err := src.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	var (
		results []Object
		summary Summary
	)
	for _, obj := range objects {
		if obj.Size <= 0 || !strings.HasSuffix(obj.Key, ResultSuffix) {
			summary.Skipped++
			continue
		}
		results = append(results, obj)
	}

	values := make([]decimal.Decimal, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, obj := range results {
		g.Go(func() error {
			data, err := src.Read(gctx, obj)
			if err != nil {
				return err
			}
			value, err := ParseReserve(data)
			if err != nil {
				return &domain.MalformedInputError{
					Line: 1,
					Err:  fmt.Errorf("reserve file %s: %w", src.Location(obj.Key), err),
				}
			}
			values[i] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return Summary{}, ctx.Err()
		}
		return Summary{}, err
	}

	summary.Files = len(values)
	summary.Total = decimal.Sum(decimal.Zero, values...)
	summary.Mean, summary.StdDev = spread(values)

	a.log.Info().
		Int("files", summary.Files).
		Int("skipped", summary.Skipped).
		Str("total", summary.Total.String()).
		Float64("mean", summary.Mean).
		Float64("stddev", summary.StdDev).
		Msg("Reserves aggregated")

	return summary, nil
}

// ParseReserve decodes the text of one reserve file, ignoring surrounding
// whitespace.
func ParseReserve(data []byte) (decimal.Decimal, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return decimal.Zero, fmt.Errorf("empty reserve value")
	}
	return decimal.NewFromString(text)
}

func spread(values []decimal.Decimal) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = v.InexactFloat64()
	}
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}
