package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// OutcomeMatrix is the replicate grid's sole artifact: lives-saved counts
// indexed [replicate][policy], plus the labels needed to interpret it.
// The full per-replicate vectors are retained because the paired comparison
// needs them, not just their summaries.
type OutcomeMatrix struct {
	Policies   []string // column labels, canonical order
	Counts     [][]int  // [replicate][policy] lives-saved
	CohortSize int
	Capacity   int
}

// Column extracts one policy's outcome vector as float64s for the statistics
// layer.
func (m *OutcomeMatrix) Column(policy int) []float64 {
	col := make([]float64, len(m.Counts))
	for i, row := range m.Counts {
		col[i] = float64(row[policy])
	}
	return col
}

// ReplicateRunner orchestrates the replicate × policy grid. Construction
// fixes everything mutable — chronic tiers, capacity, policy set — so Run
// only reads shared state and writes disjoint matrix rows.
type ReplicateRunner struct {
	cfg      SimulationConfig
	sampler  *CohortSampler
	policies []TriagePolicy
	capacity int
}

// NewReplicateRunner computes the chronic-disease thresholds on the base
// population (once, before any resampling), stamps tiers onto a private copy,
// and prepares the six policies.
func NewReplicateRunner(cfg SimulationConfig, base []Patient) (*ReplicateRunner, error) {
	if err := ValidatePopulation(base); err != nil {
		return nil, err
	}

	pop := make([]Patient, len(base))
	copy(pop, base)
	thresholds, err := ComputeChronicThresholds(pop, cfg.MajorPercentile, cfg.SeverePercentile)
	if err != nil {
		return nil, err
	}
	AssignChronicTiers(pop, thresholds)
	logrus.Debugf("chronic thresholds: major >= %.3f, severe >= %.3f", thresholds.Major, thresholds.Severe)

	sampler, err := NewCohortSampler(pop)
	if err != nil {
		return nil, err
	}
	policies, err := AllPolicies(cfg.Cutoffs)
	if err != nil {
		return nil, err
	}

	capacity := cfg.Capacity(len(pop))
	if capacity > len(pop) {
		return nil, fmt.Errorf("%w: capacity %d exceeds population size %d", ErrInvalidInput, capacity, len(pop))
	}

	return &ReplicateRunner{
		cfg:      cfg,
		sampler:  sampler,
		policies: policies,
		capacity: capacity,
	}, nil
}

// Capacity returns the per-cohort resource count.
func (r *ReplicateRunner) Capacity() int {
	return r.capacity
}

// Run executes the full grid across cfg.Workers goroutines. Replicates are
// independent: each derives its sampler and per-policy RNG streams from the
// master seed alone, so the matrix is bit-identical for any worker count.
func (r *ReplicateRunner) Run() (*OutcomeMatrix, error) {
	n := r.cfg.Replicates
	counts := make([][]int, n)
	errs := make([]error, n)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				counts[i], errs[i] = r.runReplicate(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("replicate %d: %w", i, err)
		}
	}

	names := make([]string, len(r.policies))
	for i, p := range r.policies {
		names[i] = p.Name()
	}
	return &OutcomeMatrix{
		Policies:   names,
		Counts:     counts,
		CohortSize: r.sampler.Size(),
		Capacity:   r.capacity,
	}, nil
}

// runReplicate samples one cohort and applies every policy to it with a
// fresh, isolated RNG stream per (replicate, policy) invocation.
func (r *ReplicateRunner) runReplicate(replicate int) ([]int, error) {
	prng := NewPartitionedRNG(NewSimulationKey(r.cfg.Seed))
	cohort := r.sampler.Sample(prng.ForStream(SamplerStream(replicate)))

	row := make([]int, len(r.policies))
	for j, policy := range r.policies {
		decisions, err := Allocate(policy, cohort, r.capacity, prng.ForStream(PolicyStream(policy.Name(), replicate)))
		if err != nil {
			return nil, err
		}
		row[j] = LivesSaved(decisions)
	}
	return row, nil
}

// Evaluate is the package entry point: run the grid, then the comparative
// statistics, and bundle everything a caller reports on.
func Evaluate(cfg SimulationConfig, base []Patient) (*Results, error) {
	start := time.Now()

	runner, err := NewReplicateRunner(cfg, base)
	if err != nil {
		return nil, err
	}
	logrus.Infof("running %d replicates x %d policies (population=%d, capacity=%d, workers=%d)",
		cfg.Replicates, len(runner.policies), runner.sampler.Size(), runner.capacity, cfg.Workers)

	outcomes, err := runner.Run()
	if err != nil {
		return nil, err
	}
	summaries, err := Summarize(outcomes)
	if err != nil {
		return nil, err
	}
	pairwise := CompareAll(outcomes)

	return &Results{
		Outcomes:  outcomes,
		Summaries: summaries,
		Pairwise:  pairwise,
		WallTime:  time.Since(start),
	}, nil
}
