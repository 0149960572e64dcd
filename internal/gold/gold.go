// Package gold derives a consensus ("gold") segmentation from the
// segmentations of several coders. A boundary survives when at least one
// pair of coders agrees on it, either exactly or, in near mode, within the
// canonical window size.
package gold

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dusk-indust/segagree/internal/segment"
	"github.com/dusk-indust/segagree/internal/window"
	"gonum.org/v1/gonum/stat/combin"
)

// Coder is the coder ID under which derived gold segmentations are stored.
const Coder = "gold"

// ErrTooFewCoders is returned when fewer than two segmentations are given.
var ErrTooFewCoders = errors.New("gold: at least two coders are required")

// Mode selects how pairs of coders are intersected.
type Mode int

const (
	// Exact keeps boundaries that two coders placed at the same position.
	Exact Mode = iota
	// Near keeps boundaries two coders placed within the window size of each
	// other, then merges segments smaller than the window into neighbors.
	Near
)

func (m Mode) String() string {
	switch m {
	case Exact:
		return "exact"
	case Near:
		return "near"
	default:
		return "unknown"
	}
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "exact":
		return Exact, nil
	case "near":
		return Near, nil
	default:
		return 0, fmt.Errorf("gold: unknown mode %q", s)
	}
}

// Derive returns the gold segmentation for one document. Coders are
// intersected pairwise and the union of every pair's intersection gives the
// gold boundaries.
func Derive(segs []segment.Segmentation, mode Mode) (segment.Segmentation, error) {
	if len(segs) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewCoders, len(segs))
	}
	sets, m, err := segment.ToIndexes(segs)
	if err != nil {
		return nil, err
	}

	var (
		w         int
		intersect func(a, b segment.IndexSet) segment.IndexSet
	)
	switch mode {
	case Exact:
		intersect = Intersection
	case Near:
		if w, err = window.Size(segs); err != nil {
			return nil, err
		}
		intersect = func(a, b segment.IndexSet) segment.IndexSet { return NearIntersection(a, b, w) }
	default:
		return nil, fmt.Errorf("gold: unknown mode %d", int(mode))
	}

	var union []int
	for _, pair := range combin.Combinations(len(sets), 2) {
		union = append(union, intersect(sets[pair[0]], sets[pair[1]])...)
	}
	masses, err := segment.FromIndex(segment.Normalize(union), m)
	if err != nil {
		return nil, err
	}
	if mode == Near {
		return MergeSmallSegments(masses, w), nil
	}
	return masses, nil
}

// Intersection returns the positions present in both sorted sets.
func Intersection(a, b segment.IndexSet) segment.IndexSet {
	out := segment.IndexSet{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// candidate is a pairing of a boundary from each coder.
type candidate struct {
	dist, x, y int
}

// NearIntersection pairs boundaries of a and b lying fewer than w positions
// apart. Pairs are taken nearest first (ties by the position in a, then in
// b), and each position of b is used at most once. Pairs sharing a distance
// and a position in a are merged into one consensus boundary at the mean of
// the positions involved, rounded to the nearest integer with halves going
// to the lower position.
func NearIntersection(a, b segment.IndexSet, w int) segment.IndexSet {
	var candidates []candidate
	for _, x := range a {
		for _, y := range b {
			d := x - y
			if d < 0 {
				d = -d
			}
			if d < w {
				candidates = append(candidates, candidate{dist: d, x: x, y: y})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.dist != cj.dist {
			return ci.dist < cj.dist
		}
		if ci.x != cj.x {
			return ci.x < cj.x
		}
		return ci.y < cj.y
	})

	used := make(map[int]bool)
	var consensus []int
	for i := 0; i < len(candidates); {
		key := candidates[i]
		sum, n := key.x, 1
		for ; i < len(candidates) && candidates[i].dist == key.dist && candidates[i].x == key.x; i++ {
			if used[candidates[i].y] {
				continue
			}
			used[candidates[i].y] = true
			sum += candidates[i].y
			n++
		}
		if n > 1 {
			consensus = append(consensus, roundHalfDown(sum, n))
		}
	}
	return segment.Normalize(consensus)
}

// roundHalfDown returns sum/n rounded to the nearest integer, with exact
// halves rounded down. sum and n must be positive.
func roundHalfDown(sum, n int) int {
	num, den := 2*sum-n, 2*n
	return (num + den - 1) / den
}

// MergeSmallSegments folds every run of segments smaller than w into the
// neighboring segments of at least w. A run between two large segments is
// split in half, the earlier neighbor taking the odd unit; a leading run goes
// wholly to the first large segment and a trailing run to the last. When no
// segment reaches w the result is a single segment. Total mass is preserved.
func MergeSmallSegments(masses segment.Segmentation, w int) segment.Segmentation {
	carry := 0
	var merged segment.Segmentation
	for _, m := range masses {
		if m < w {
			carry += m
			continue
		}
		if carry > 0 && len(merged) > 0 {
			half, odd := carry/2, carry%2
			merged[len(merged)-1] += half + odd
			carry = half
		}
		merged = append(merged, m+carry)
		carry = 0
	}
	if len(merged) == 0 {
		return segment.Segmentation{carry}
	}
	merged[len(merged)-1] += carry
	return merged
}

// DeriveCorpus derives a gold segmentation for every document, stored under
// the Coder key. Each document's coders are taken in sorted order.
func DeriveCorpus(c segment.Corpus, mode Mode) (segment.Corpus, error) {
	out := make(segment.Corpus, len(c))
	for _, id := range c.DocumentIDs() {
		g, err := Derive(c[id].Ordered(), mode)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out[id] = segment.Document{Coder: g}
	}
	return out, nil
}
