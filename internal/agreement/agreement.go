// Package agreement computes chance-corrected inter-coder agreement on
// segment boundaries: strict (exact position) coefficients in the multi-π and
// multi-κ families, and near (windowed) coefficients in the π and α
// families, together with the variance estimates used for significance
// testing.
//
// Every function is a pure computation over its arguments. Callers that need
// per-document results over a large corpus can use PerDocument, which fans
// the work out across goroutines.
package agreement

import (
	"errors"
	"fmt"
	"math"

	"github.com/dusk-indust/segagree/internal/segment"
)

var (
	// ErrDegenerate is returned when expected agreement is 1 (or expected
	// disagreement is 0), which leaves the coefficient undefined. The
	// accompanying Result holds NaN.
	ErrDegenerate = errors.New("agreement: coefficient undefined, no variability among coders")

	// ErrTooFewCoders is returned when fewer than two segmentations are given.
	ErrTooFewCoders = errors.New("agreement: at least two coders are required")
)

// degenerateTolerance is how close expected agreement may come to 1 before
// the coefficient is treated as undefined.
const degenerateTolerance = 1e-12

// Result is a coefficient paired with its variance. Variance is zero for
// coefficients that have no variance estimator.
type Result struct {
	Coefficient float64 `json:"coefficient"`
	Variance    float64 `json:"variance,omitempty"`
}

// HasVariance reports whether r carries a variance estimate.
func (r Result) HasVariance() bool {
	return r.Variance > 0 && !math.IsNaN(r.Variance)
}

// Undefined reports whether the coefficient could not be computed.
func (r Result) Undefined() bool {
	return math.IsNaN(r.Coefficient)
}

func undefined() Result {
	return Result{Coefficient: math.NaN(), Variance: math.NaN()}
}

// Func computes a coefficient over one segmentation per coder.
type Func func(segs []segment.Segmentation) (Result, error)

// Method selects which coefficient to compute.
type Method int

const (
	// MultiPi is strict agreement with a shared boundary rate.
	MultiPi Method = iota
	// MultiKappa is strict agreement with per-coder boundary rates.
	MultiKappa
	// PositivePi is strict agreement restricted to positions where at
	// least one coder placed a boundary.
	PositivePi
	// Bias is the difference between multi-π and multi-κ expected agreement.
	Bias
	// WindowPi is near agreement in the multi-π family.
	WindowPi
	// WindowAlpha is near agreement in Krippendorff's α family.
	WindowAlpha
)

// Methods lists every method in declaration order.
var Methods = []Method{MultiPi, MultiKappa, PositivePi, Bias, WindowPi, WindowAlpha}

func (m Method) String() string {
	switch m {
	case MultiPi:
		return "multi-pi"
	case MultiKappa:
		return "multi-kappa"
	case PositivePi:
		return "positive-pi"
	case Bias:
		return "bias"
	case WindowPi:
		return "window-pi"
	case WindowAlpha:
		return "window-alpha"
	default:
		return "unknown"
	}
}

// ParseMethod returns the method named s.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("agreement: unknown method %q", s)
}

// Windowed reports whether the method depends on a window size.
func (m Method) Windowed() bool {
	return m == WindowPi || m == WindowAlpha
}

// Coefficient returns the Func for method m. k is the window size for the
// windowed methods; k <= 0 derives it per call from the segmentations.
func Coefficient(m Method, k int) (Func, error) {
	switch m {
	case MultiPi:
		return func(segs []segment.Segmentation) (Result, error) { return Strict(segs, ExpectedPi) }, nil
	case MultiKappa:
		return func(segs []segment.Segmentation) (Result, error) { return Strict(segs, ExpectedKappa) }, nil
	case PositivePi:
		return StrictOnPositive, nil
	case Bias:
		return AnnotatorBias, nil
	case WindowPi:
		return func(segs []segment.Segmentation) (Result, error) { return NearPi(segs, k) }, nil
	case WindowAlpha:
		return func(segs []segment.Segmentation) (Result, error) { return NearAlpha(segs, k) }, nil
	default:
		return nil, fmt.Errorf("agreement: unknown method %d", int(m))
	}
}

// chanceCorrected returns (o-e)/(1-e), or ErrDegenerate when e is 1.
func chanceCorrected(o, e float64) (float64, error) {
	if math.Abs(1-e) < degenerateTolerance {
		return math.NaN(), fmt.Errorf("%w: expected agreement %.6f", ErrDegenerate, e)
	}
	return (o - e) / (1 - e), nil
}
