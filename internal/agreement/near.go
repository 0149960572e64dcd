package agreement

import (
	"fmt"

	"github.com/dusk-indust/segagree/internal/segment"
	"github.com/dusk-indust/segagree/internal/window"
)

// nearInput is the window tally view of a set of segmentations.
type nearInput struct {
	coders  int
	k       int
	tallies []window.Counts
}

func prepareNear(segs []segment.Segmentation, k int) (nearInput, error) {
	if len(segs) < 2 {
		return nearInput{}, fmt.Errorf("%w: got %d", ErrTooFewCoders, len(segs))
	}
	sets, m, err := segment.ToIndexes(segs)
	if err != nil {
		return nearInput{}, err
	}
	if k <= 0 {
		if k, err = window.Size(segs); err != nil {
			return nearInput{}, err
		}
	}
	tallies, err := window.Judgments(sets, m, k)
	if err != nil {
		return nearInput{}, err
	}
	return nearInput{coders: len(segs), k: k, tallies: tallies}, nil
}

// PairwiseDistance sums, over ordered pairs of distinct labels a and b, the
// product of their counts weighted by the squared label distance.
func PairwiseDistance(counts window.Counts) float64 {
	var sum float64
	for a, na := range counts {
		if na == 0 {
			continue
		}
		for b, nb := range counts {
			if a == b || nb == 0 {
				continue
			}
			d := float64(a - b)
			sum += float64(na) * float64(nb) * d * d
		}
	}
	return sum
}

// ObservedDisagreement is the mean per-window pairwise distance, normalized
// by the number of ordered coder pairs.
func ObservedDisagreement(c int, tallies []window.Counts) float64 {
	var sum float64
	for _, t := range tallies {
		sum += PairwiseDistance(t)
	}
	return sum / float64(len(tallies)*c*(c-1))
}

// ExpectedDisagreement is the pairwise distance of the pooled labels,
// normalized by the number of ordered judgment pairs.
func ExpectedDisagreement(c int, tallies []window.Counts) float64 {
	total := float64(len(tallies) * c)
	return PairwiseDistance(window.Pool(tallies)) / (total * (total - 1))
}

// NearAlpha computes windowed agreement in the style of Krippendorff's α:
// coders agree when they count the same number of boundaries in a window,
// and disagreement grows with the square of the count difference. k <= 0
// derives the window size from the segmentations.
func NearAlpha(segs []segment.Segmentation, k int) (Result, error) {
	in, err := prepareNear(segs, k)
	if err != nil {
		return undefined(), err
	}
	o := ObservedDisagreement(in.coders, in.tallies)
	e := ExpectedDisagreement(in.coders, in.tallies)
	if e < degenerateTolerance {
		return undefined(), fmt.Errorf("%w: expected disagreement is zero", ErrDegenerate)
	}
	return Result{Coefficient: 1 - o/e}, nil
}

// WindowPairwiseAgreement is the proportion of agreeing judgment pairs in
// one window.
func WindowPairwiseAgreement(c int, counts window.Counts) float64 {
	agreeing := 0
	for _, n := range counts {
		agreeing += n * (n - 1)
	}
	return float64(agreeing) / float64(c*(c-1))
}

// WindowObservedAgreement is the mean pairwise agreement over all windows.
func WindowObservedAgreement(c int, tallies []window.Counts) float64 {
	var sum float64
	for _, t := range tallies {
		sum += WindowPairwiseAgreement(c, t)
	}
	return sum / float64(len(tallies))
}

// WindowExpectedAgreementPi is multi-π chance agreement over the pooled
// window labels.
func WindowExpectedAgreementPi(tallies []window.Counts) float64 {
	pooled := window.Pool(tallies)
	var squares, total float64
	for _, n := range pooled {
		squares += float64(n * n)
		total += float64(n)
	}
	return squares / (total * total)
}

// NearPi computes windowed agreement in the multi-π family. k <= 0 derives
// the window size from the segmentations.
func NearPi(segs []segment.Segmentation, k int) (Result, error) {
	in, err := prepareNear(segs, k)
	if err != nil {
		return undefined(), err
	}
	o := WindowObservedAgreement(in.coders, in.tallies)
	e := WindowExpectedAgreementPi(in.tallies)
	a, err := chanceCorrected(o, e)
	if err != nil {
		return undefined(), err
	}
	return Result{Coefficient: a}, nil
}
