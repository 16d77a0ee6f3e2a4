package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// DefaultClaimInterval is the reference period, in days, against which a
// policy term is scaled to get its expected claim frequency.
const DefaultClaimInterval = 365.0

// MaxClaimsPerPolicy bounds a single claim count draw.
const MaxClaimsPerPolicy = math.MaxInt32

// Claim count model names accepted by NewClaimCountModel.
const (
	ClaimModelExponential = "exponential"
	ClaimModelPoisson     = "poisson"
)

// ClaimCountModel draws the number of claims for one policy in one trial.
type ClaimCountModel interface {
	// ClaimCount returns a non-negative claim count for a policy with the
	// given term in days. A term that makes the distribution undefined
	// yields a *domain.InvalidParameterError.
	ClaimCount(term float64, src rand.Source) (int, error)
	// Name identifies the model in logs and run history.
	Name() string
}

// NewClaimCountModel resolves a model by name. An empty name selects the
// exponential model.
func NewClaimCountModel(name string, interval float64) (ClaimCountModel, error) {
	if err := checkInterval(interval); err != nil {
		return nil, err
	}

	switch name {
	case "", ClaimModelExponential:
		return ExponentialClaimCount{Interval: interval}, nil
	case ClaimModelPoisson:
		return PoissonClaimCount{Interval: interval}, nil
	default:
		return nil, fmt.Errorf("unknown claim count model %q (want %q or %q)", name, ClaimModelExponential, ClaimModelPoisson)
	}
}

// ExponentialClaimCount draws X from an exponential distribution with mean
// term/Interval and truncates it toward zero. This is the default model.
// Because of the truncation the expected count for mean m is
// 1/(e^(1/m) - 1), not m.
type ExponentialClaimCount struct {
	Interval float64
}

// Name implements ClaimCountModel.
func (m ExponentialClaimCount) Name() string {
	return ClaimModelExponential
}

// Distribution returns the continuous distribution the claim count is
// truncated from.
func (m ExponentialClaimCount) Distribution(term float64, src rand.Source) (distuv.Exponential, error) {
	if err := checkInterval(m.Interval); err != nil {
		return distuv.Exponential{}, err
	}
	if err := checkTerm(term); err != nil {
		return distuv.Exponential{}, err
	}
	return distuv.Exponential{Rate: 1 / (term / m.Interval), Src: src}, nil
}

// ClaimCount implements ClaimCountModel.
func (m ExponentialClaimCount) ClaimCount(term float64, src rand.Source) (int, error) {
	dist, err := m.Distribution(term, src)
	if err != nil {
		return 0, err
	}
	return toClaimCount(dist.Rand(), term)
}

// PoissonClaimCount draws the count from a Poisson distribution with mean
// term/Interval. It must be selected explicitly.
type PoissonClaimCount struct {
	Interval float64
}

// Name implements ClaimCountModel.
func (m PoissonClaimCount) Name() string {
	return ClaimModelPoisson
}

// Distribution returns the Poisson distribution for a policy term.
func (m PoissonClaimCount) Distribution(term float64, src rand.Source) (distuv.Poisson, error) {
	if err := checkInterval(m.Interval); err != nil {
		return distuv.Poisson{}, err
	}
	if err := checkTerm(term); err != nil {
		return distuv.Poisson{}, err
	}
	return distuv.Poisson{Lambda: term / m.Interval, Src: src}, nil
}

// ClaimCount implements ClaimCountModel.
func (m PoissonClaimCount) ClaimCount(term float64, src rand.Source) (int, error) {
	dist, err := m.Distribution(term, src)
	if err != nil {
		return 0, err
	}
	return toClaimCount(dist.Rand(), term)
}

func checkTerm(term float64) error {
	switch {
	case math.IsNaN(term) || math.IsInf(term, 0):
		return &domain.InvalidParameterError{Parameter: "term", Value: term, Reason: "must be a finite number of days"}
	case term <= 0:
		return &domain.InvalidParameterError{Parameter: "term", Value: term, Reason: "must be greater than zero"}
	}
	return nil
}

func checkInterval(interval float64) error {
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return &domain.InvalidParameterError{Parameter: "claim_interval", Value: interval, Reason: "must be a positive finite number of days"}
	}
	return nil
}

// toClaimCount truncates toward zero, never rounds.
func toClaimCount(x, term float64) (int, error) {
	if x >= MaxClaimsPerPolicy {
		return 0, &domain.InvalidParameterError{
			Parameter: "term",
			Value:     term,
			Reason:    fmt.Sprintf("claim count draw %g exceeds %d", x, MaxClaimsPerPolicy),
		}
	}
	return int(x), nil
}
