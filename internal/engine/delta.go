package engine

import "math/rand"

// Workload deltas simulate variable task sizing within fixed bounds.
const (
	minWorkloadDelta = 10
	maxWorkloadDelta = 20
)

// DeltaSource supplies workload increments/decrements for assignment and
// completion. Injectable so tests can pin exact post-mutation workloads.
type DeltaSource interface {
	WorkloadDelta() int
}

type randomDeltaSource struct{}

// NewRandomDeltaSource returns the production source: uniform deltas in
// [10,20].
func NewRandomDeltaSource() DeltaSource {
	return randomDeltaSource{}
}

func (randomDeltaSource) WorkloadDelta() int {
	return minWorkloadDelta + rand.Intn(maxWorkloadDelta-minWorkloadDelta+1)
}

// FixedDeltaSource always yields the same delta; intended for tests.
type FixedDeltaSource int

func (f FixedDeltaSource) WorkloadDelta() int { return int(f) }
