package simulation

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// TrialRunner computes the reserve for a single trial.
type TrialRunner struct {
	counts   ClaimCountModel
	severity SeverityModel
}

// NewTrialRunner returns a runner using the given samplers.
func NewTrialRunner(counts ClaimCountModel, severity SeverityModel) *TrialRunner {
	return &TrialRunner{counts: counts, severity: severity}
}

// Run returns the total reserve of one trial over policies, drawing from src.
// The first sampler error is returned with the offending policy attached.
func (r *TrialRunner) Run(policies []domain.Policy, src rand.Source) (float64, error) {
	reserve := 0.0

	for i := range policies {
		p := &policies[i]

		n, err := r.counts.ClaimCount(p.Term, src)
		if err != nil {
			return 0, policyError(err, i, p.ID)
		}

		for c := 0; c < n; c++ {
			reserve += r.severity.Severity(*p, src)
		}
	}

	return reserve, nil
}

func policyError(err error, index int, id string) error {
	var paramErr *domain.InvalidParameterError
	if errors.As(err, &paramErr) && paramErr.PolicyID == "" {
		tagged := *paramErr
		tagged.PolicyID = id
		return fmt.Errorf("policy %d: %w", index, &tagged)
	}
	return fmt.Errorf("policy %d (%s): %w", index, id, err)
}
