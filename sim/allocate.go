package sim

import (
	"fmt"
	"math/rand"
)

// Allocate applies one policy to one cohort: rank every patient, grant the
// resource to the top capacity patients, mark the rest no-critical-care.
// Granted patients split into survived/died by their discharge flag.
//
// Capacity above the cohort size is an error, never a silent clamp.
func Allocate(policy TriagePolicy, cohort Cohort, capacity int, rng *rand.Rand) ([]Decision, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrInvalidInput, capacity)
	}
	if capacity > len(cohort) {
		return nil, fmt.Errorf("%w: capacity %d exceeds cohort size %d", ErrInvalidInput, capacity, len(cohort))
	}

	order := policy.Rank(cohort, rng)
	decisions := make([]Decision, len(cohort)) // zero value = DecisionNoCare
	for _, idx := range order[:capacity] {
		if cohort[idx].Survived {
			decisions[idx] = DecisionSurvivedWithCare
		} else {
			decisions[idx] = DecisionDiedWithCare
		}
	}
	return decisions, nil
}

// LivesSaved reduces an allocated cohort to the count of patients who
// received the resource and survived.
func LivesSaved(decisions []Decision) int {
	saved := 0
	for _, d := range decisions {
		if d == DecisionSurvivedWithCare {
			saved++
		}
	}
	return saved
}
