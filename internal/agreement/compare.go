package agreement

import (
	"fmt"
	"math"
)

// zCritical is the two-sided critical value at the 95% level.
const zCritical = 1.96

// ErrorMargin returns the half-width of the confidence interval around a
// coefficient with the given variance. Only the 0.95 and 0.5 intervals are
// supported.
func ErrorMargin(variance, interval float64) (float64, error) {
	switch interval {
	case 0.95:
		return zCritical * math.Sqrt(variance), nil
	case 0.5:
		return 0.67 * math.Sqrt(variance), nil
	default:
		return 0, fmt.Errorf("agreement: interval must be 0.95 or 0.5, got %v", interval)
	}
}

// Comparison describes how one result differs from a reference result.
type Comparison struct {
	// Drop is the coefficient minus the reference coefficient.
	Drop float64 `json:"drop"`
	// Z is Drop divided by the pooled standard error.
	Z float64 `json:"z"`
}

// Significant reports whether the difference is significant at the 95% level.
func (c Comparison) Significant() bool {
	return c.Z > zCritical || c.Z < -zCritical
}

// Compare returns the difference between r and ref and its z-score.
func Compare(r, ref Result) Comparison {
	drop := r.Coefficient - ref.Coefficient
	return Comparison{
		Drop: drop,
		Z:    drop / math.Sqrt(r.Variance+ref.Variance),
	}
}
