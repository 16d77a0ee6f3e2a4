package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// Default claim severity parameters.
const (
	DefaultSeverityMean   = 100.0
	DefaultSeverityStdDev = 10.0
)

// SeverityModel draws the monetary amount of a single claim.
type SeverityModel interface {
	Severity(p domain.Policy, src rand.Source) float64
	// Validate reports parameters that make the distribution undefined.
	Validate() error
}

// DefaultSeverity is the fixed N(100, 10) severity model.
var DefaultSeverity = NormalSeverity{Mean: DefaultSeverityMean, StdDev: DefaultSeverityStdDev}

// NormalSeverity draws claim amounts from a normal distribution that does
// not depend on the policy. Negative draws are returned as is.
type NormalSeverity struct {
	Mean   float64
	StdDev float64
}

// Severity implements SeverityModel.
func (m NormalSeverity) Severity(_ domain.Policy, src rand.Source) float64 {
	return distuv.Normal{Mu: m.Mean, Sigma: m.StdDev, Src: src}.Rand()
}

// Validate implements SeverityModel.
func (m NormalSeverity) Validate() error {
	if math.IsNaN(m.Mean) || math.IsInf(m.Mean, 0) {
		return &domain.InvalidParameterError{Parameter: "severity_mean", Value: m.Mean, Reason: "must be finite"}
	}
	if math.IsNaN(m.StdDev) || math.IsInf(m.StdDev, 0) || m.StdDev <= 0 {
		return &domain.InvalidParameterError{Parameter: "severity_stddev", Value: m.StdDev, Reason: "must be a positive finite number"}
	}
	return nil
}
