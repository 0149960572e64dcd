package agreement

import (
	"fmt"

	"github.com/dusk-indust/segagree/internal/segment"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"
)

// Expected selects the model of chance agreement for strict coefficients.
type Expected int

const (
	// ExpectedPi assumes all coders share one boundary rate (Fleiss' multi-π).
	ExpectedPi Expected = iota
	// ExpectedKappa uses each coder's own boundary rate (multi-κ).
	ExpectedKappa
)

func (e Expected) String() string {
	switch e {
	case ExpectedPi:
		return "pi"
	case ExpectedKappa:
		return "kappa"
	default:
		return "unknown"
	}
}

// strictInput is the boundary-index view of a set of segmentations shared
// by every strict coefficient.
type strictInput struct {
	sets      []segment.IndexSet
	mass      int
	coders    int
	judgments map[int]int
	positive  int
}

// positions is the number of potential boundaries.
func (s strictInput) positions() int { return s.mass - 1 }

func prepareStrict(segs []segment.Segmentation) (strictInput, error) {
	if len(segs) < 2 {
		return strictInput{}, fmt.Errorf("%w: got %d", ErrTooFewCoders, len(segs))
	}
	sets, m, err := segment.ToIndexes(segs)
	if err != nil {
		return strictInput{}, err
	}
	if m < 2 {
		return strictInput{}, fmt.Errorf("%w: total mass %d leaves no potential boundaries", ErrDegenerate, m)
	}
	judgments := CountJudgments(sets)
	positive := 0
	for _, n := range judgments {
		positive += n
	}
	return strictInput{sets: sets, mass: m, coders: len(segs), judgments: judgments, positive: positive}, nil
}

// CountJudgments returns, per boundary position, the number of coders that
// placed a boundary there. Positions nobody chose are absent.
func CountJudgments(sets []segment.IndexSet) map[int]int {
	judgments := make(map[int]int)
	for _, set := range sets {
		for _, b := range set {
			judgments[b]++
		}
	}
	return judgments
}

// PairwiseAgreement is the proportion of agreeing coder pairs at a position
// where n of c coders placed a boundary.
func PairwiseAgreement(c, n int) float64 {
	return float64(n*(n-1)+(c-n)*(c-n-1)) / float64(c*(c-1))
}

// ObservedAgreement is the mean pairwise agreement over positions 1..m-1.
func ObservedAgreement(c, m int, judgments map[int]int) float64 {
	agreements := make([]float64, 0, m-1)
	for i := 1; i < m; i++ {
		agreements = append(agreements, PairwiseAgreement(c, judgments[i]))
	}
	return floats.Sum(agreements) / float64(len(agreements))
}

// ExpectedAgreementPi is multi-π chance agreement for c coders over i
// positions with n positive judgments in total.
func ExpectedAgreementPi(c, i, n int) float64 {
	total := float64(c * i)
	pos := float64(n)
	neg := total - pos
	return (pos*pos + neg*neg) / (total * total)
}

// ExpectedAgreementKappa is multi-κ chance agreement: the mean over coder
// pairs of the probability that both place, or both omit, a boundary, using
// each coder's own rate over m-1 positions.
func ExpectedAgreementKappa(sets []segment.IndexSet, m int) float64 {
	i := float64(m - 1)
	pos := make([]float64, len(sets))
	neg := make([]float64, len(sets))
	for c, set := range sets {
		pos[c] = float64(len(set)) / i
		neg[c] = (i - float64(len(set))) / i
	}
	pairs := combin.Combinations(len(sets), 2)
	var both, neither float64
	for _, p := range pairs {
		both += pos[p[0]] * pos[p[1]]
		neither += neg[p[0]] * neg[p[1]]
	}
	n := float64(len(pairs))
	return both/n + neither/n
}

// VariancePi is the large-sample variance of multi-π with two categories
// for c coders over i positions (Fleiss, Nee & Landis 1979, eq. 13).
func VariancePi(c, i int) float64 {
	return 2 / float64(i*c*(c-1))
}

// Strict computes strict boundary agreement under the given chance model.
// The variance is the multi-π estimator for both models.
func Strict(segs []segment.Segmentation, model Expected) (Result, error) {
	in, err := prepareStrict(segs)
	if err != nil {
		return undefined(), err
	}
	o := ObservedAgreement(in.coders, in.mass, in.judgments)

	var e float64
	switch model {
	case ExpectedPi:
		e = ExpectedAgreementPi(in.coders, in.positions(), in.positive)
	case ExpectedKappa:
		e = ExpectedAgreementKappa(in.sets, in.mass)
	default:
		return undefined(), fmt.Errorf("agreement: unknown expected agreement model %d", int(model))
	}

	a, err := chanceCorrected(o, e)
	if err != nil {
		return undefined(), err
	}
	return Result{Coefficient: a, Variance: VariancePi(in.coders, in.positions())}, nil
}

// AnnotatorBias is multi-π expected agreement minus multi-κ expected
// agreement. Positive values mean coders differ in how often they place
// boundaries.
func AnnotatorBias(segs []segment.Segmentation) (Result, error) {
	in, err := prepareStrict(segs)
	if err != nil {
		return undefined(), err
	}
	pi := ExpectedAgreementPi(in.coders, in.positions(), in.positive)
	kappa := ExpectedAgreementKappa(in.sets, in.mass)
	return Result{Coefficient: pi - kappa}, nil
}

// ProportionPositive is the share of positive judgments among the c*i
// judgments made.
func ProportionPositive(c, i, n int) float64 {
	return float64(n) / float64(i*c)
}

// ObservedAgreementOnPositive is the agreement among coders restricted to
// the judgments on positions where some coder placed a boundary.
func ObservedAgreementOnPositive(c, m int, judgments map[int]int) float64 {
	i := m - 1
	n := 0
	squares := 0
	for _, j := range judgments {
		n += j
		squares += j * j
	}
	p := ProportionPositive(c, i, n)
	num := float64(squares) - float64(i*c)*p
	den := float64(i*c*(c-1)) * p
	return num / den
}

// VariancePiOnPositive is the variance of StrictOnPositive for expected
// agreement e, c coders and i positions.
func VariancePiOnPositive(e float64, c, i int) float64 {
	cm := float64(c - 1)
	x := (1 + 2*cm*e) * (1 + 2*cm*e)
	y := 2 * cm * e * (1 - e)
	z := float64(i*c) * cm * cm * e * (1 - e)
	return (x + y) / z
}

// StrictOnPositive computes agreement on positive boundary judgments,
// answering how well coders agree once at least one of them sees a
// boundary.
func StrictOnPositive(segs []segment.Segmentation) (Result, error) {
	in, err := prepareStrict(segs)
	if err != nil {
		return undefined(), err
	}
	if in.positive == 0 {
		return undefined(), fmt.Errorf("%w: no coder placed a boundary", ErrDegenerate)
	}
	o := ObservedAgreementOnPositive(in.coders, in.mass, in.judgments)
	e := ProportionPositive(in.coders, in.positions(), in.positive)
	a, err := chanceCorrected(o, e)
	if err != nil {
		return undefined(), err
	}
	return Result{Coefficient: a, Variance: VariancePiOnPositive(e, in.coders, in.positions())}, nil
}
