// Package window slides a fixed-size frame over the candidate boundary
// positions of a document and tallies, per frame, how many coders counted
// each possible number of boundaries. The tallies feed the near-agreement
// coefficients.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/dusk-indust/segagree/internal/segment"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidWindow is returned when a window size does not fit the document.
var ErrInvalidWindow = errors.New("window: invalid window size")

// MeanSegmentMass returns the mean mass over every segment of every
// segmentation, taken as one flattened list.
func MeanSegmentMass(segs []segment.Segmentation) float64 {
	var masses []float64
	for _, s := range segs {
		for _, m := range s {
			masses = append(masses, float64(m))
		}
	}
	if len(masses) == 0 {
		return math.NaN()
	}
	return stat.Mean(masses, nil)
}

// Size returns the canonical window size k: half the mean segment mass,
// rounded half away from zero.
func Size(segs []segment.Segmentation) (int, error) {
	mean := MeanSegmentMass(segs)
	if math.IsNaN(mean) {
		return 0, fmt.Errorf("%w: no segments to derive a size from", ErrInvalidWindow)
	}
	k := int(math.Round(mean / 2))
	if k < 1 {
		return 0, fmt.Errorf("%w: mean segment mass %.2f gives k=%d", ErrInvalidWindow, mean, k)
	}
	return k, nil
}

// Counts is the judgment tally of one window: Counts[n] is the number of
// coders who placed exactly n boundaries inside the window.
type Counts []int

// Total returns the number of judgments in the tally.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Judgments returns one tally per window of size k over a document of total
// mass m. Windows start at positions 1..m-k, so there are m-k of them, and
// each tally has k+1 labels (0..k boundaries).
func Judgments(sets []segment.IndexSet, m, k int) ([]Counts, error) {
	if k < 1 || k >= m {
		return nil, fmt.Errorf("%w: k=%d for total mass %d", ErrInvalidWindow, k, m)
	}
	windows := m - k
	tallies := make([]Counts, windows)
	for w := range tallies {
		tallies[w] = make(Counts, k+1)
	}
	for _, set := range sets {
		// marks[p] is 1 when the coder placed a boundary at position p.
		marks := make([]int, m)
		for _, b := range set {
			if b < 1 || b >= m {
				return nil, fmt.Errorf("%w: index %d with total mass %d", segment.ErrMalformedIndexes, b, m)
			}
			marks[b] = 1
		}
		count := 0
		for p := 1; p <= k; p++ {
			count += marks[p]
		}
		tallies[0][count]++
		for start := 2; start <= windows; start++ {
			count += marks[start+k-1] - marks[start-1]
			tallies[start-1][count]++
		}
	}
	return tallies, nil
}

// Pool sums the tallies of all windows into one label distribution.
func Pool(tallies []Counts) Counts {
	if len(tallies) == 0 {
		return nil
	}
	pooled := make(Counts, len(tallies[0]))
	for _, t := range tallies {
		for label, n := range t {
			pooled[label] += n
		}
	}
	return pooled
}

// ReferenceSize derives one window size for a whole corpus from the
// segmentations of a single reference coder, so that every document is
// measured with the same window.
func ReferenceSize(c segment.Corpus, coder string) (int, error) {
	segs := make([]segment.Segmentation, 0, len(c))
	for _, id := range c.DocumentIDs() {
		s, ok := c[id][coder]
		if !ok {
			return 0, fmt.Errorf("%w: document %s has no segmentation by reference coder %q", ErrInvalidWindow, id, coder)
		}
		segs = append(segs, s)
	}
	return Size(segs)
}
