// Package domain provides the core portfolio types and the error taxonomy
// shared by the loader, the simulation engine and the output writers.
package domain

// Policy is one insured policy as decoded from the portfolio source.
// Policies are read-only for the lifetime of a simulation run.
type Policy struct {
	ID            string  `json:"id"`
	Age           float64 `json:"age"`
	Gender        string  `json:"gender"`
	SmokingStatus string  `json:"smoking_status"`
	Occupation    string  `json:"occupation"`
	PolicyType    string  `json:"policy_type"`
	EffectiveDate string  `json:"effective_date"`
	Term          float64 `json:"term"` // days in force, must be > 0 to be simulated
	Premium       float64 `json:"premium"`
}

// PolicyIndex maps policy ids to the loaded records.
// It is built once after load and never mutated afterwards.
type PolicyIndex struct {
	byID       map[string]*Policy
	duplicates []string
}

// NewPolicyIndex indexes policies by id. When an id occurs more than once the
// last record wins and the id is reported by Duplicates.
func NewPolicyIndex(policies []Policy) *PolicyIndex {
	idx := &PolicyIndex{
		byID: make(map[string]*Policy, len(policies)),
	}

	seen := make(map[string]int, len(policies))
	for i := range policies {
		p := &policies[i]
		seen[p.ID]++
		if seen[p.ID] == 2 {
			idx.duplicates = append(idx.duplicates, p.ID)
		}
		idx.byID[p.ID] = p
	}

	return idx
}

// Lookup returns the policy with the given id.
func (idx *PolicyIndex) Lookup(id string) (*Policy, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

// Len returns the number of distinct policy ids.
func (idx *PolicyIndex) Len() int {
	return len(idx.byID)
}

// Duplicates returns ids that appeared more than once, in first-repeat order.
func (idx *PolicyIndex) Duplicates() []string {
	out := make([]string, len(idx.duplicates))
	copy(out, idx.duplicates)
	return out
}
