package sim

import (
	"fmt"
	"math/rand"
)

// CohortSampler draws bootstrap replicate cohorts from an immutable base
// population: every replicate has the base population's size, each patient
// drawn uniformly with replacement. The sampler holds its own copy of the
// base slice and is safe for concurrent Sample calls as long as each caller
// supplies its own rng.
type CohortSampler struct {
	base []Patient
}

// NewCohortSampler validates the population and copies it.
// Chronic tiers must already be assigned; bootstrap copies carry them as-is.
func NewCohortSampler(base []Patient) (*CohortSampler, error) {
	if err := ValidatePopulation(base); err != nil {
		return nil, fmt.Errorf("cohort sampler: %w", err)
	}
	cp := make([]Patient, len(base))
	copy(cp, base)
	return &CohortSampler{base: cp}, nil
}

// Size returns the base population size (= every cohort's size).
func (s *CohortSampler) Size() int {
	return len(s.base)
}

// Sample draws one replicate cohort using the supplied stream.
// Consumes exactly Size() draws.
func (s *CohortSampler) Sample(rng *rand.Rand) Cohort {
	cohort := make(Cohort, len(s.base))
	for i := range cohort {
		cohort[i] = s.base[rng.Intn(len(s.base))]
	}
	return cohort
}
