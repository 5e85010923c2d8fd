package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// Canonical policy names, in report order.
const (
	PolicyLottery       = "lottery"
	PolicySickestFirst  = "sickest-first"
	PolicyYoungestFirst = "youngest-first"
	PolicyNewYork       = "new-york"
	PolicyMaryland      = "maryland"
	PolicyPennsylvania  = "pennsylvania"
)

// PolicyNames lists the six policies in canonical report order.
func PolicyNames() []string {
	return []string{
		PolicyLottery,
		PolicySickestFirst,
		PolicyYoungestFirst,
		PolicyNewYork,
		PolicyMaryland,
		PolicyPennsylvania,
	}
}

// TriagePolicy ranks a cohort into resource-priority order.
// Implementations MUST NOT modify the cohort; the only permitted side effect
// is consuming draws from rng. Randomized policies draw exactly once per
// patient; Sickest-first and Youngest-first never touch rng.
type TriagePolicy interface {
	Name() string
	// Rank returns a permutation of cohort indices, highest priority first.
	Rank(cohort Cohort, rng *rand.Rand) []int
}

// PolicyCutoffs parameterizes the tiered policies. Each severity slice holds
// ascending cutoffs; a score lands in the bucket counting how many cutoffs it
// meets or exceeds. Defaults reproduce the published state protocols; a YAML
// override may adjust them for sensitivity runs.
type PolicyCutoffs struct {
	NewYorkSeverity      []float64 // 2 cutoffs -> tiers 0 (highest), 1 (intermediate), 2 (no critical care)
	MarylandSeverity     []float64 // 3 cutoffs -> severity tiers 1..4
	MarylandAge          []float64 // 3 cutoffs -> age buckets 1..4
	PennsylvaniaSeverity []float64 // 3 cutoffs -> severity tiers 1..4
	PennsylvaniaAge      []float64 // 3 cutoffs -> age buckets 1..4
}

// DefaultPolicyCutoffs returns the protocol constants.
func DefaultPolicyCutoffs() PolicyCutoffs {
	return PolicyCutoffs{
		NewYorkSeverity:      []float64{8, 12},
		MarylandSeverity:     []float64{9, 12, 15},
		MarylandAge:          []float64{50, 70, 85},
		PennsylvaniaSeverity: []float64{6, 9, 12},
		PennsylvaniaAge:      []float64{41, 61, 76},
	}
}

// Validate checks slice lengths and ascending order.
func (c PolicyCutoffs) Validate() error {
	check := func(name string, cutoffs []float64, want int) error {
		if len(cutoffs) != want {
			return fmt.Errorf("%w: %s needs %d cutoffs, got %d", ErrInvalidInput, name, want, len(cutoffs))
		}
		for i := 1; i < len(cutoffs); i++ {
			if cutoffs[i] <= cutoffs[i-1] {
				return fmt.Errorf("%w: %s cutoffs must be strictly ascending, got %v", ErrInvalidInput, name, cutoffs)
			}
		}
		return nil
	}
	if err := check("new-york severity", c.NewYorkSeverity, 2); err != nil {
		return err
	}
	if err := check("maryland severity", c.MarylandSeverity, 3); err != nil {
		return err
	}
	if err := check("maryland age", c.MarylandAge, 3); err != nil {
		return err
	}
	if err := check("pennsylvania severity", c.PennsylvaniaSeverity, 3); err != nil {
		return err
	}
	return check("pennsylvania age", c.PennsylvaniaAge, 3)
}

// bucket returns how many cutoffs v meets or exceeds: v < cutoffs[0] -> 0,
// cutoffs[0] <= v < cutoffs[1] -> 1, and so on.
func bucket(v float64, cutoffs []float64) int {
	b := 0
	for _, c := range cutoffs {
		if v < c {
			break
		}
		b++
	}
	return b
}

// rankKey is the composite sort key shared by every policy. Fields compare in
// declared order, so a random tie-break can never cross a primary-score
// boundary no matter its magnitude. idx keeps the order total and stable.
type rankKey struct {
	primary   float64
	secondary float64
	draw      float64 // in [0,1) for randomized policies, 0 otherwise
	idx       int     // original cohort position
}

func (a rankKey) less(b rankKey) bool {
	if a.primary != b.primary {
		return a.primary < b.primary
	}
	if a.secondary != b.secondary {
		return a.secondary < b.secondary
	}
	if a.draw != b.draw {
		return a.draw < b.draw
	}
	return a.idx < b.idx
}

// sortByKey sorts cohort indices ascending by key.
func sortByKey(keys []rankKey) []int {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	order := make([]int, len(keys))
	for i, k := range keys {
		order[i] = k.idx
	}
	return order
}

// === Lottery ===

// LotteryPolicy allocates by a uniform random draw per patient.
// No clinical information is used.
type LotteryPolicy struct{}

func (LotteryPolicy) Name() string { return PolicyLottery }

func (LotteryPolicy) Rank(cohort Cohort, rng *rand.Rand) []int {
	keys := make([]rankKey, len(cohort))
	for i := range cohort {
		keys[i] = rankKey{draw: rng.Float64(), idx: i}
	}
	return sortByKey(keys)
}

// === Sickest-first ===

// SickestFirstPolicy allocates by descending severity score.
// Ties break by original cohort order; no randomness is consumed.
type SickestFirstPolicy struct{}

func (SickestFirstPolicy) Name() string { return PolicySickestFirst }

func (SickestFirstPolicy) Rank(cohort Cohort, _ *rand.Rand) []int {
	keys := make([]rankKey, len(cohort))
	for i, p := range cohort {
		keys[i] = rankKey{primary: -p.SOFA, idx: i}
	}
	return sortByKey(keys)
}

// === Youngest-first ===

// YoungestFirstPolicy allocates by ascending age.
// Ties break by original cohort order; no randomness is consumed.
type YoungestFirstPolicy struct{}

func (YoungestFirstPolicy) Name() string { return PolicyYoungestFirst }

func (YoungestFirstPolicy) Rank(cohort Cohort, _ *rand.Rand) []int {
	keys := make([]rankKey, len(cohort))
	for i, p := range cohort {
		keys[i] = rankKey{primary: p.Age, idx: i}
	}
	return sortByKey(keys)
}

// === New York ===

// NewYorkPolicy ranks by a three-tier severity bucket with a random
// tie-break inside each tier. Tier 2 ("no critical care") sorts after every
// tier 0/1 patient, so a tier-2 patient receives the resource only when
// capacity exceeds the combined tier-0/1 population.
type NewYorkPolicy struct {
	Severity []float64
}

func (NewYorkPolicy) Name() string { return PolicyNewYork }

func (p NewYorkPolicy) Rank(cohort Cohort, rng *rand.Rand) []int {
	keys := make([]rankKey, len(cohort))
	for i, pt := range cohort {
		keys[i] = rankKey{
			primary: float64(bucket(pt.SOFA, p.Severity)),
			draw:    rng.Float64(),
			idx:     i,
		}
	}
	return sortByKey(keys)
}

// === Maryland ===

// MarylandPolicy ranks by a composite score: severity tier 1..4 plus 3 when
// the chronic tier is severe. Lower is prioritized, so the policy favors
// less-severe, non-severely-comorbid patients. Secondary key is the age
// bucket (younger first), tertiary a random draw.
type MarylandPolicy struct {
	Severity []float64
	Age      []float64
}

func (MarylandPolicy) Name() string { return PolicyMaryland }

func (p MarylandPolicy) Rank(cohort Cohort, rng *rand.Rand) []int {
	keys := make([]rankKey, len(cohort))
	for i, pt := range cohort {
		score := bucket(pt.SOFA, p.Severity) + 1
		if pt.Chronic == ChronicSevere {
			score += 3
		}
		keys[i] = rankKey{
			primary:   float64(score),
			secondary: float64(bucket(pt.Age, p.Age) + 1),
			draw:      rng.Float64(),
			idx:       i,
		}
	}
	return sortByKey(keys)
}

// === Pennsylvania ===

// PennsylvaniaPolicy ranks like Maryland with its own cutoffs and a chronic
// offset of +2 for major, +4 for severe.
type PennsylvaniaPolicy struct {
	Severity []float64
	Age      []float64
}

func (PennsylvaniaPolicy) Name() string { return PolicyPennsylvania }

func (p PennsylvaniaPolicy) Rank(cohort Cohort, rng *rand.Rand) []int {
	keys := make([]rankKey, len(cohort))
	for i, pt := range cohort {
		score := bucket(pt.SOFA, p.Severity) + 1
		switch pt.Chronic {
		case ChronicMajor:
			score += 2
		case ChronicSevere:
			score += 4
		}
		keys[i] = rankKey{
			primary:   float64(score),
			secondary: float64(bucket(pt.Age, p.Age) + 1),
			draw:      rng.Float64(),
			idx:       i,
		}
	}
	return sortByKey(keys)
}

// === Registry ===

// NewPolicy creates a policy by canonical name.
func NewPolicy(name string, cutoffs PolicyCutoffs) (TriagePolicy, error) {
	switch name {
	case PolicyLottery:
		return LotteryPolicy{}, nil
	case PolicySickestFirst:
		return SickestFirstPolicy{}, nil
	case PolicyYoungestFirst:
		return YoungestFirstPolicy{}, nil
	case PolicyNewYork:
		return NewYorkPolicy{Severity: cutoffs.NewYorkSeverity}, nil
	case PolicyMaryland:
		return MarylandPolicy{Severity: cutoffs.MarylandSeverity, Age: cutoffs.MarylandAge}, nil
	case PolicyPennsylvania:
		return PennsylvaniaPolicy{Severity: cutoffs.PennsylvaniaSeverity, Age: cutoffs.PennsylvaniaAge}, nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %q; valid policies: %v", ErrInvalidInput, name, PolicyNames())
	}
}

// AllPolicies instantiates the six policies in canonical report order.
func AllPolicies(cutoffs PolicyCutoffs) ([]TriagePolicy, error) {
	names := PolicyNames()
	policies := make([]TriagePolicy, len(names))
	for i, n := range names {
		p, err := NewPolicy(n, cutoffs)
		if err != nil {
			return nil, err
		}
		policies[i] = p
	}
	return policies, nil
}
