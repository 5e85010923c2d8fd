package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ChronicTier classifies a patient's chronic-disease burden relative to the
// base population. Thresholds are computed exactly once, before resampling,
// and carry over unchanged onto every bootstrap copy of a patient.
type ChronicTier int

const (
	ChronicNone ChronicTier = iota
	ChronicMajor
	ChronicSevere
)

func (t ChronicTier) String() string {
	switch t {
	case ChronicNone:
		return "none"
	case ChronicMajor:
		return "major"
	case ChronicSevere:
		return "severe"
	default:
		return fmt.Sprintf("ChronicTier(%d)", int(t))
	}
}

// Decision is the per-patient allocation outcome under one policy on one cohort.
type Decision int

const (
	// DecisionNoCare: patient ranked below the capacity cutoff; no resource.
	DecisionNoCare Decision = iota
	// DecisionDiedWithCare: resource granted, patient did not survive.
	DecisionDiedWithCare
	// DecisionSurvivedWithCare: resource granted, patient survived to discharge.
	DecisionSurvivedWithCare
)

func (d Decision) String() string {
	switch d {
	case DecisionNoCare:
		return "no-critical-care"
	case DecisionDiedWithCare:
		return "died-with-care"
	case DecisionSurvivedWithCare:
		return "survived-with-care"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Patient is one row of the base population. Records are read-only once the
// simulation starts; cohorts hold copies by value.
//
// Burden is NaN when the chronic-disease burden score is missing. Race is
// carried from the input schema for downstream reporting; no policy reads it.
type Patient struct {
	Age      float64
	Race     string
	SOFA     float64 // severity score, higher = more severe organ failure
	Survived bool    // survived-to-discharge flag from the source data
	Burden   float64 // chronic-disease burden score, NaN = missing
	Chronic  ChronicTier
}

// Cohort is one bootstrap replicate of the population, in arrival order.
type Cohort []Patient

// ChronicThresholds holds the burden-score cutoffs separating the tiers.
// Scores >= Severe are severe, >= Major are major, everything else
// (including missing) is none.
type ChronicThresholds struct {
	Major  float64
	Severe float64
}

// ComputeChronicThresholds derives the tier cutoffs from the base population
// by taking the majorPct and severePct quantiles of the recorded burden
// scores. Patients with a missing burden score are excluded from the
// threshold computation (they always classify as ChronicNone).
func ComputeChronicThresholds(pop []Patient, majorPct, severePct float64) (ChronicThresholds, error) {
	if len(pop) == 0 {
		return ChronicThresholds{}, fmt.Errorf("%w: empty population", ErrInvalidInput)
	}
	if majorPct <= 0 || severePct >= 1 || majorPct > severePct {
		return ChronicThresholds{}, fmt.Errorf("%w: percentiles %v/%v must satisfy 0 < major <= severe < 1",
			ErrInvalidInput, majorPct, severePct)
	}

	scores := make([]float64, 0, len(pop))
	for _, p := range pop {
		if !math.IsNaN(p.Burden) {
			scores = append(scores, p.Burden)
		}
	}
	if len(scores) == 0 {
		// No recorded burden scores: every patient is tier none.
		return ChronicThresholds{Major: math.Inf(1), Severe: math.Inf(1)}, nil
	}
	sort.Float64s(scores)
	return ChronicThresholds{
		Major:  stat.Quantile(majorPct, stat.LinInterp, scores, nil),
		Severe: stat.Quantile(severePct, stat.LinInterp, scores, nil),
	}, nil
}

// Classify maps one burden score onto a tier. NaN maps to ChronicNone.
func (t ChronicThresholds) Classify(burden float64) ChronicTier {
	switch {
	case math.IsNaN(burden):
		return ChronicNone
	case burden >= t.Severe:
		return ChronicSevere
	case burden >= t.Major:
		return ChronicMajor
	default:
		return ChronicNone
	}
}

// AssignChronicTiers stamps each patient's Chronic field in place.
// Call once on the base population before any resampling.
func AssignChronicTiers(pop []Patient, t ChronicThresholds) {
	for i := range pop {
		pop[i].Chronic = t.Classify(pop[i].Burden)
	}
}

// ValidatePopulation rejects populations the simulation cannot run on:
// empty input, negative ages, non-finite ages or severity scores, or
// infinite burden scores (NaN burden is the missing marker and is allowed).
func ValidatePopulation(pop []Patient) error {
	if len(pop) == 0 {
		return fmt.Errorf("%w: empty population", ErrInvalidInput)
	}
	for i, p := range pop {
		if math.IsNaN(p.Age) || math.IsInf(p.Age, 0) || p.Age < 0 {
			return fmt.Errorf("%w: patient %d has invalid age %v", ErrInvalidInput, i, p.Age)
		}
		if math.IsNaN(p.SOFA) || math.IsInf(p.SOFA, 0) {
			return fmt.Errorf("%w: patient %d has invalid severity score %v", ErrInvalidInput, i, p.SOFA)
		}
		if math.IsInf(p.Burden, 0) {
			return fmt.Errorf("%w: patient %d has invalid burden score %v", ErrInvalidInput, i, p.Burden)
		}
	}
	return nil
}
