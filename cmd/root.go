package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/triage-sim/triage-sim/sim"
)

var (
	// CLI flags for the evaluation run
	seed             int64   // Master seed; all RNG streams derive from it
	replicates       int     // Number of bootstrap replicate cohorts
	scarcity         float64 // Fraction of the cohort that can receive the resource
	majorPercentile  float64 // Chronic-burden quantile for tier "major"
	severePercentile float64 // Chronic-burden quantile for tier "severe"
	workers          int     // Parallel replicate workers (0 = GOMAXPROCS)
	logLevel         string  // Log verbosity level

	// CLI flags for population input
	populationPath   string // CSV population file (age,race,sofa,survived,burden)
	syntheticSize    int    // Generate a synthetic population of this size instead
	policyConfigPath string // Optional YAML override for policy tier cutoffs
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "triage-sim",
	Short: "Monte Carlo evaluator for patient-triage policies under scarcity",
}

// runCmd executes the evaluation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the triage policy evaluation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cutoffs := sim.DefaultPolicyCutoffs()
		if policyConfigPath != "" {
			cutoffs, err = loadPolicyCutoffs(policyConfigPath)
			if err != nil {
				logrus.Fatalf("Failed to load policy config: %v", err)
			}
		}

		var population []sim.Patient
		switch {
		case populationPath != "":
			population, err = loadPopulation(populationPath)
			if err != nil {
				logrus.Fatalf("Failed to load population: %v", err)
			}
		case syntheticSize > 0:
			population = generatePopulation(syntheticSize, seed)
			logrus.Infof("Generated synthetic population of %d patients", syntheticSize)
		default:
			logrus.Fatalf("No population provided. Use --population <csv> or --synthetic <n>.")
		}

		cfg, err := sim.NewSimulationConfig(seed, replicates, scarcity, majorPercentile, severePercentile, workers, cutoffs)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		results, err := sim.Evaluate(cfg, population)
		if err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
		results.Print()
		logrus.Infof("Evaluation complete in %v.", results.WallTime)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master random seed")
	runCmd.Flags().IntVar(&replicates, "replicates", 10000, "Number of bootstrap replicate cohorts")
	runCmd.Flags().Float64Var(&scarcity, "scarcity", 0.5, "Scarcity fraction: capacity = floor(population * fraction)")
	runCmd.Flags().Float64Var(&majorPercentile, "major-percentile", 0.75, "Chronic-burden percentile for tier 'major'")
	runCmd.Flags().Float64Var(&severePercentile, "severe-percentile", 0.90, "Chronic-burden percentile for tier 'severe'")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Parallel replicate workers (0 = GOMAXPROCS)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&populationPath, "population", "", "Population CSV (columns: age,race,sofa,survived,burden)")
	runCmd.Flags().IntVar(&syntheticSize, "synthetic", 0, "Generate a seeded synthetic population of this size")
	runCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "YAML file overriding policy tier cutoffs")

	rootCmd.AddCommand(runCmd)
}
