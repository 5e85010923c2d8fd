package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/triage-sim/triage-sim/sim"
)

func TestParsePolicyCutoffs_PartialOverrideKeepsDefaults(t *testing.T) {
	cutoffs, err := parsePolicyCutoffs([]byte("new_york_severity: [7, 11]\n"))
	require.NoError(t, err)

	assert.Equal(t, []float64{7, 11}, cutoffs.NewYorkSeverity)
	defaults := sim.DefaultPolicyCutoffs()
	assert.Equal(t, defaults.MarylandSeverity, cutoffs.MarylandSeverity)
	assert.Equal(t, defaults.MarylandAge, cutoffs.MarylandAge)
	assert.Equal(t, defaults.PennsylvaniaSeverity, cutoffs.PennsylvaniaSeverity)
	assert.Equal(t, defaults.PennsylvaniaAge, cutoffs.PennsylvaniaAge)
}

func TestParsePolicyCutoffs_EmptyFileIsAllDefaults(t *testing.T) {
	cutoffs, err := parsePolicyCutoffs([]byte("{}\n"))
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultPolicyCutoffs(), cutoffs)
}

func TestParsePolicyCutoffs_UnknownFieldRejected(t *testing.T) {
	// strict parsing: typos must cause errors, not silent defaults
	_, err := parsePolicyCutoffs([]byte("newyork_severity: [7, 11]\n"))
	assert.Error(t, err)
}

func TestParsePolicyCutoffs_InvalidCutoffsRejected(t *testing.T) {
	_, err := parsePolicyCutoffs([]byte("maryland_severity: [15, 12, 9]\n"))
	assert.ErrorIs(t, err, sim.ErrInvalidInput)

	_, err = parsePolicyCutoffs([]byte("new_york_severity: [8]\n"))
	assert.ErrorIs(t, err, sim.ErrInvalidInput)
}

func TestLoadPolicyCutoffs_MissingFile(t *testing.T) {
	_, err := loadPolicyCutoffs("does-not-exist.yaml")
	assert.Error(t, err)
}
