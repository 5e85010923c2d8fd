package sim

import (
	"fmt"
	"runtime"
)

// SimulationConfig captures every knob of a run. Constructed once at startup,
// validated, and passed by value into every component — never mutated while
// the replicate grid executes.
type SimulationConfig struct {
	Seed             int64   // master seed; all RNG streams derive from it
	Replicates       int     // number of bootstrap cohorts (N)
	ScarcityFraction float64 // capacity = floor(population size * fraction)
	MajorPercentile  float64 // chronic-burden quantile for tier "major"
	SeverePercentile float64 // chronic-burden quantile for tier "severe"
	Workers          int     // parallel replicate workers
	Cutoffs          PolicyCutoffs
}

// NewSimulationConfig validates and assembles a SimulationConfig.
// workers <= 0 selects GOMAXPROCS.
func NewSimulationConfig(seed int64, replicates int, scarcity, majorPct, severePct float64, workers int, cutoffs PolicyCutoffs) (SimulationConfig, error) {
	if replicates <= 0 {
		return SimulationConfig{}, fmt.Errorf("%w: replicates must be positive, got %d", ErrInvalidInput, replicates)
	}
	if scarcity < 0 || scarcity > 1 {
		return SimulationConfig{}, fmt.Errorf("%w: scarcity fraction %v outside [0, 1]", ErrInvalidInput, scarcity)
	}
	if majorPct <= 0 || severePct >= 1 || majorPct > severePct {
		return SimulationConfig{}, fmt.Errorf("%w: chronic percentiles %v/%v must satisfy 0 < major <= severe < 1",
			ErrInvalidInput, majorPct, severePct)
	}
	if err := cutoffs.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return SimulationConfig{
		Seed:             seed,
		Replicates:       replicates,
		ScarcityFraction: scarcity,
		MajorPercentile:  majorPct,
		SeverePercentile: severePct,
		Workers:          workers,
		Cutoffs:          cutoffs,
	}, nil
}

// Capacity returns the number of resource units per cohort for a population
// of the given size: floor(size * scarcity fraction).
func (c SimulationConfig) Capacity(populationSize int) int {
	return int(float64(populationSize) * c.ScarcityFraction)
}
