package simulation

import "math/rand/v2"

// Entropy is the random source handle for a simulation run. All sampling
// draws from streams derived from it; no package-level generator is read
// while trials run.
//
// A seeded Entropy makes runs reproducible. An unseeded one picks its seed
// from the runtime's auto-seeded generator at construction, so two runs
// produce different results. The zero value is unset; NewEngine replaces
// it with a fresh unseeded handle.
type Entropy struct {
	seed   uint64
	seeded bool
	set    bool
}

// NewSeededEntropy returns an entropy handle with a fixed seed.
func NewSeededEntropy(seed uint64) Entropy {
	return Entropy{seed: seed, seeded: true, set: true}
}

// NewEntropy returns an entropy handle with a fresh nondeterministic seed.
func NewEntropy() Entropy {
	return Entropy{seed: rand.Uint64(), set: true}
}

// Seed returns the root seed. For unseeded handles this is the randomly
// chosen seed, which can be fed back to NewSeededEntropy to replay a run.
func (e Entropy) Seed() uint64 {
	return e.seed
}

// IsZero reports whether e was built by neither constructor.
func (e Entropy) IsZero() bool {
	return !e.set
}

// Seeded reports whether the handle was created with an explicit seed.
func (e Entropy) Seeded() bool {
	return e.seeded
}

// Stream returns the independent source for stream n. Distinct n give
// distinct PCG states; the same (seed, n) always gives the same sequence.
// A returned source must not be shared between goroutines.
func (e Entropy) Stream(n int) rand.Source {
	state := e.seed + uint64(n)*2*splitmixGamma
	hi := splitmix64(&state)
	lo := splitmix64(&state)
	return rand.NewPCG(hi, lo)
}

const splitmixGamma = 0x9e3779b97f4a7c15

func splitmix64(x *uint64) uint64 {
	*x += splitmixGamma
	z := *x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
