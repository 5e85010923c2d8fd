package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical outcome matrices, regardless of how
// many workers execute the replicate grid.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Stream names ===

// SamplerStream names the RNG stream that draws replicate r's bootstrap cohort.
func SamplerStream(replicate int) string {
	return fmt.Sprintf("sampler/%d", replicate)
}

// PolicyStream names the RNG stream consumed by one policy invocation on one
// replicate. Every (replicate, policy) pair gets its own stream so that a
// lottery draw in one invocation can never perturb another.
func PolicyStream(policy string, replicate int) string {
	return fmt.Sprintf("policy/%s/%d", policy, replicate)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG streams per named
// consumer.
//
// Derivation formula: streamSeed = masterSeed XOR fnv1a64(streamName).
// The derivation depends only on (key, name), never on creation order, so
// workers running disjoint replicates in any interleaving reproduce the
// sequential run exactly.
//
// Thread-safety: NOT thread-safe. Each worker must own its instance.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForStream returns a deterministically-seeded RNG for the named stream.
// The same name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForStream(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.streams[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
