package sim

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// PolicySummary reports one policy's lives-saved-percentage distribution
// across replicates.
type PolicySummary struct {
	Policy       string
	MeanPct      float64
	CredibleLo   float64 // empirical 2.5th percentile
	CredibleHi   float64 // empirical 97.5th percentile
	ConfidenceLo float64 // mean - 1.96 sigma
	ConfidenceHi float64 // mean + 1.96 sigma
}

// CredibleInterval renders the 2.5-97.5 percentile range at 1 decimal.
func (s PolicySummary) CredibleInterval() string {
	return fmt.Sprintf("%.1f-%.1f", s.CredibleLo, s.CredibleHi)
}

// ConfidenceInterval renders mean +/- 1.96 sigma at 1 decimal.
func (s PolicySummary) ConfidenceInterval() string {
	return fmt.Sprintf("%.1f-%.1f", s.ConfidenceLo, s.ConfidenceHi)
}

// Comparison is one cell of the pairwise significance matrix.
type Comparison struct {
	MeanDiff float64 // mean(a) - mean(b) over paired replicates
	Z        float64 // |MeanDiff| / sqrt(var_a + var_b - 2 cov); 0 for self-pairs
	P        float64 // two-sided p-value; 1 for self/identical, NaN when degenerate
}

// Degenerate reports whether the paired-test denominator collapsed to zero
// with a nonzero mean difference, leaving the comparison undefined.
func (c Comparison) Degenerate() bool {
	return math.IsNaN(c.P)
}

// Label formats the p-value for the report: "<0.001" below the threshold,
// "=<value>" at one significant figure otherwise, "NA" when degenerate.
func (c Comparison) Label() string {
	switch {
	case math.IsNaN(c.P):
		return "NA"
	case c.P < 0.001:
		return "<0.001"
	default:
		return fmt.Sprintf("=%.1g", c.P)
	}
}

// ComparisonMatrix is the square pairwise-test matrix over the six policies.
type ComparisonMatrix struct {
	Policies []string
	Cells    [][]Comparison // [row][col], row = policy A, col = policy B
}

// At returns the comparison between the named policies.
func (m *ComparisonMatrix) At(a, b string) (Comparison, error) {
	ia, ib := -1, -1
	for i, name := range m.Policies {
		if name == a {
			ia = i
		}
		if name == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return Comparison{}, fmt.Errorf("%w: unknown policy pair (%q, %q)", ErrInvalidInput, a, b)
	}
	return m.Cells[ia][ib], nil
}

// Results bundles all outputs from one evaluation run.
type Results struct {
	Outcomes  *OutcomeMatrix
	Summaries []PolicySummary
	Pairwise  *ComparisonMatrix
	WallTime  time.Duration
}

// Summarize computes each policy's lives-saved-percentage summary from the
// retained outcome vectors.
func Summarize(m *OutcomeMatrix) ([]PolicySummary, error) {
	if len(m.Counts) == 0 || m.CohortSize == 0 {
		return nil, fmt.Errorf("%w: empty outcome matrix", ErrInvalidInput)
	}

	summaries := make([]PolicySummary, len(m.Policies))
	for j, name := range m.Policies {
		pct := m.Column(j)
		for i := range pct {
			pct[i] = 100 * pct[i] / float64(m.CohortSize)
		}
		mean := stat.Mean(pct, nil)
		sigma := stat.StdDev(pct, nil)

		sorted := make([]float64, len(pct))
		copy(sorted, pct)
		sort.Float64s(sorted)

		summaries[j] = PolicySummary{
			Policy:       name,
			MeanPct:      mean,
			CredibleLo:   stat.Quantile(0.025, stat.LinInterp, sorted, nil),
			CredibleHi:   stat.Quantile(0.975, stat.LinInterp, sorted, nil),
			ConfidenceLo: mean - 1.96*sigma,
			ConfidenceHi: mean + 1.96*sigma,
		}
	}
	return summaries, nil
}

// PairedTest compares two policies' paired outcome vectors. Sharing bootstrap
// cohorts correlates the vectors, so the denominator subtracts twice their
// sample covariance from the pooled variance; a naive two-sample test would
// overstate significance here.
//
// Degrees of freedom come from the base population size, not the replicate
// count. A zero denominator with zero mean difference (self-pairs, identical
// sequences) yields p = 1; with a nonzero difference it returns ErrDegenerate
// and a NaN p-value.
func PairedTest(a, b []float64, df int) (Comparison, error) {
	meanDiff := stat.Mean(a, nil) - stat.Mean(b, nil)
	denom := stat.Variance(a, nil) + stat.Variance(b, nil) - 2*stat.Covariance(a, b, nil)

	if denom <= 0 {
		if meanDiff == 0 {
			return Comparison{MeanDiff: 0, Z: 0, P: 1}, nil
		}
		return Comparison{MeanDiff: meanDiff, Z: math.Inf(1), P: math.NaN()},
			fmt.Errorf("%w: zero paired variance with mean difference %v", ErrDegenerate, meanDiff)
	}

	z := math.Abs(meanDiff) / math.Sqrt(denom)
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return Comparison{
		MeanDiff: meanDiff,
		Z:        z,
		P:        2 * tdist.CDF(-z),
	}, nil
}

// CompareAll builds the full square matrix, self-pairs included. Degenerate
// cells are recorded as NaN rather than aborting the matrix: the taxonomy
// treats them as a reported-undefined result, not a failure of the run.
func CompareAll(m *OutcomeMatrix) *ComparisonMatrix {
	df := m.CohortSize - 1
	cols := make([][]float64, len(m.Policies))
	for j := range m.Policies {
		cols[j] = m.Column(j)
	}

	cells := make([][]Comparison, len(m.Policies))
	for i := range m.Policies {
		cells[i] = make([]Comparison, len(m.Policies))
		for j := range m.Policies {
			cmp, err := PairedTest(cols[i], cols[j], df)
			if err != nil {
				logrus.Warnf("comparison %s vs %s: %v", m.Policies[i], m.Policies[j], err)
			}
			cells[i][j] = cmp
		}
	}
	return &ComparisonMatrix{Policies: m.Policies, Cells: cells}
}

// Print displays the summary table and p-value matrix at the end of a run.
func (r *Results) Print() {
	fmt.Println("=== Lives saved by policy (% of cohort) ===")
	fmt.Printf("%-16s %8s %18s %18s\n", "policy", "mean", "95% credible", "95% confidence")
	for _, s := range r.Summaries {
		fmt.Printf("%-16s %8.1f %18s %18s\n", s.Policy, s.MeanPct, s.CredibleInterval(), s.ConfidenceInterval())
	}

	fmt.Println()
	fmt.Println("=== Pairwise p-values (paired, covariance-adjusted) ===")
	fmt.Printf("%-16s", "")
	for _, name := range r.Pairwise.Policies {
		fmt.Printf(" %14s", name)
	}
	fmt.Println()
	for i, name := range r.Pairwise.Policies {
		fmt.Printf("%-16s", name)
		for j := range r.Pairwise.Policies {
			fmt.Printf(" %14s", r.Pairwise.Cells[i][j].Label())
		}
		fmt.Println()
	}
}
