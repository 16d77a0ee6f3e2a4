package testing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// PortfolioHeader is the header row of a portfolio CSV
var PortfolioHeader = []string{
	"id", "age", "gender", "smoking_status", "occupation",
	"policy_type", "effective_date", "term", "premium",
}

// NewPolicyFixtures returns n policies with ids P1..Pn, all sharing term
func NewPolicyFixtures(n int, term float64) []domain.Policy {
	policies := make([]domain.Policy, n)
	for i := range policies {
		policies[i] = domain.Policy{
			ID:            fmt.Sprintf("P%d", i+1),
			Age:           float64(30 + i%40),
			Gender:        []string{"M", "F"}[i%2],
			SmokingStatus: []string{"non-smoker", "smoker"}[i%3/2],
			Occupation:    "Engineer",
			PolicyType:    "Term Life",
			EffectiveDate: "2023-01-01",
			Term:          term,
			Premium:       1200,
		}
	}
	return policies
}

// WritePortfolioCSV writes policies with a header row to a file in a
// temporary directory and returns its path.
func WritePortfolioCSV(t *testing.T, policies []domain.Policy) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "policies.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create portfolio file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{PortfolioHeader}
	for _, p := range policies {
		records = append(records, []string{
			p.ID,
			strconv.FormatFloat(p.Age, 'f', -1, 64),
			p.Gender,
			p.SmokingStatus,
			p.Occupation,
			p.PolicyType,
			p.EffectiveDate,
			strconv.FormatFloat(p.Term, 'f', -1, 64),
			strconv.FormatFloat(p.Premium, 'f', -1, 64),
		})
	}
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("Failed to write portfolio file: %v", err)
	}
	return path
}
