package sim

import "errors"

var (
	// ErrInvalidInput marks malformed or inconsistent simulation inputs:
	// empty populations, non-finite clinical fields, capacity exceeding
	// cohort size, out-of-range configuration values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerate marks a statistically undefined pairwise comparison:
	// the paired-test denominator var1 + var2 - 2*cov collapses to zero
	// while the mean difference does not.
	ErrDegenerate = errors.New("numeric degeneracy")
)
