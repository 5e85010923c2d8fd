// Package sim evaluates competing patient-triage policies under resource
// scarcity by Monte Carlo simulation over bootstrap-resampled cohorts.
//
// # Reading Guide
//
// Start with these three files to understand the pipeline:
//   - patient.go: the Patient record, chronic-disease tiers, allocation decisions
//   - policy.go: the six ranking policies and their composite sort keys
//   - runner.go: the replicate grid, worker pool, and Evaluate entry point
//
// # Pipeline
//
// Base population → CohortSampler (N bootstrap cohorts) → TriagePolicy
// ranking × 6 → Allocate cutoff-and-mark → LivesSaved per (replicate, policy)
// → OutcomeMatrix → Summarize + CompareAll (paired covariance-adjusted tests).
//
// # Determinism
//
// Every random draw comes from a stream derived in rng.go from the master
// seed and a (replicate, consumer) name, never from shared state. The same
// seed therefore produces a bit-identical OutcomeMatrix at any worker count.
package sim
