package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPopulation(n int) []Patient {
	pop := make([]Patient, n)
	for i := range pop {
		pop[i] = Patient{Age: float64(20 + i), SOFA: float64(i % 15), Survived: i%2 == 0}
	}
	return pop
}

func TestNewCohortSampler_EmptyPopulation(t *testing.T) {
	_, err := NewCohortSampler(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCohortSampler_CohortSizeEqualsPopulationSize(t *testing.T) {
	s, err := NewCohortSampler(testPopulation(17))
	require.NoError(t, err)

	rng := NewPartitionedRNG(NewSimulationKey(1)).ForStream(SamplerStream(0))
	cohort := s.Sample(rng)
	assert.Len(t, cohort, 17)
	assert.Equal(t, 17, s.Size())
}

func TestCohortSampler_DrawsFromBase(t *testing.T) {
	base := testPopulation(5)
	s, err := NewCohortSampler(base)
	require.NoError(t, err)

	rng := NewPartitionedRNG(NewSimulationKey(2)).ForStream(SamplerStream(0))
	cohort := s.Sample(rng)
	for i, p := range cohort {
		found := false
		for _, b := range base {
			if p == b {
				found = true
				break
			}
		}
		assert.True(t, found, "cohort[%d] = %+v not in base population", i, p)
	}
}

func TestCohortSampler_Reproducible(t *testing.T) {
	s, err := NewCohortSampler(testPopulation(30))
	require.NoError(t, err)

	c1 := s.Sample(NewPartitionedRNG(NewSimulationKey(9)).ForStream(SamplerStream(4)))
	c2 := s.Sample(NewPartitionedRNG(NewSimulationKey(9)).ForStream(SamplerStream(4)))
	assert.Equal(t, c1, c2)

	c3 := s.Sample(NewPartitionedRNG(NewSimulationKey(10)).ForStream(SamplerStream(4)))
	assert.NotEqual(t, c1, c3, "different seeds should produce different cohorts")
}

func TestCohortSampler_CopiesBase(t *testing.T) {
	base := testPopulation(4)
	s, err := NewCohortSampler(base)
	require.NoError(t, err)

	// Mutating the caller's slice must not leak into later samples.
	base[0].Age = 999
	rng := NewPartitionedRNG(NewSimulationKey(3)).ForStream(SamplerStream(0))
	for _, p := range s.Sample(rng) {
		assert.NotEqual(t, 999.0, p.Age)
	}
}
