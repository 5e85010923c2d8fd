package cmd

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/triage-sim/triage-sim/sim"
)

// policyConfigFile mirrors the optional policy-cutoffs YAML. Every field is
// optional; absent sections keep the protocol defaults. Unknown keys are
// rejected by strict parsing so a typo cannot silently fall back to defaults.
type policyConfigFile struct {
	NewYorkSeverity      []float64 `yaml:"new_york_severity"`
	MarylandSeverity     []float64 `yaml:"maryland_severity"`
	MarylandAge          []float64 `yaml:"maryland_age"`
	PennsylvaniaSeverity []float64 `yaml:"pennsylvania_severity"`
	PennsylvaniaAge      []float64 `yaml:"pennsylvania_age"`
}

// loadPolicyCutoffs parses the YAML override and merges it over the defaults.
func loadPolicyCutoffs(path string) (sim.PolicyCutoffs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.PolicyCutoffs{}, err
	}
	return parsePolicyCutoffs(data)
}

func parsePolicyCutoffs(data []byte) (sim.PolicyCutoffs, error) {
	var file policyConfigFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return sim.PolicyCutoffs{}, err
	}

	cutoffs := sim.DefaultPolicyCutoffs()
	if file.NewYorkSeverity != nil {
		cutoffs.NewYorkSeverity = file.NewYorkSeverity
	}
	if file.MarylandSeverity != nil {
		cutoffs.MarylandSeverity = file.MarylandSeverity
	}
	if file.MarylandAge != nil {
		cutoffs.MarylandAge = file.MarylandAge
	}
	if file.PennsylvaniaSeverity != nil {
		cutoffs.PennsylvaniaSeverity = file.PennsylvaniaSeverity
	}
	if file.PennsylvaniaAge != nil {
		cutoffs.PennsylvaniaAge = file.PennsylvaniaAge
	}
	return cutoffs, cutoffs.Validate()
}
