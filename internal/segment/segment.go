// Package segment holds the two equivalent representations of a linear
// segmentation (segment masses and boundary indexes) and the document and
// corpus containers that group one segmentation per coder.
package segment

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInconsistentMass is returned when segmentations of one document do
	// not add up to the same total mass.
	ErrInconsistentMass = errors.New("segment: inconsistent total mass")

	// ErrCoderSetMismatch is returned when documents in a corpus were not
	// segmented by the same set of coders.
	ErrCoderSetMismatch = errors.New("segment: coder sets differ between documents")

	// ErrMalformedIndexes is returned when a boundary index sequence is not
	// strictly increasing or falls outside [1, M-1].
	ErrMalformedIndexes = errors.New("segment: malformed boundary indexes")

	// ErrEmptySegmentation is returned for a segmentation with no segments.
	ErrEmptySegmentation = errors.New("segment: empty segmentation")

	// ErrNonPositiveMass is returned when a segment has a mass below 1.
	ErrNonPositiveMass = errors.New("segment: non-positive segment mass")
)

// Segmentation is one coder's segmentation of a document, as an ordered
// sequence of segment masses.
type Segmentation []int

// IndexSet is a segmentation expressed as the positions of its boundaries.
// A boundary at position i falls between unit i and unit i+1.
type IndexSet []int

// Mass returns the total mass (number of units) covered by s.
func (s Segmentation) Mass() int {
	total := 0
	for _, m := range s {
		total += m
	}
	return total
}

// Validate checks that s has at least one segment and that every segment
// holds at least one unit.
func (s Segmentation) Validate() error {
	if len(s) == 0 {
		return ErrEmptySegmentation
	}
	for i, m := range s {
		if m < 1 {
			return fmt.Errorf("%w: segment %d has mass %d", ErrNonPositiveMass, i, m)
		}
	}
	return nil
}

// Indexes converts s to its boundary index set. The final boundary at the
// total mass is not included.
func (s Segmentation) Indexes() IndexSet {
	if len(s) == 0 {
		return IndexSet{}
	}
	idx := make(IndexSet, 0, len(s)-1)
	sum := 0
	for _, m := range s[:len(s)-1] {
		sum += m
		idx = append(idx, sum)
	}
	return idx
}

// Equal reports whether s and o hold the same masses in the same order.
func (s Segmentation) Equal(o Segmentation) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Contains reports whether position i is a boundary in the set. The set must
// be sorted.
func (x IndexSet) Contains(i int) bool {
	j := sort.SearchInts(x, i)
	return j < len(x) && x[j] == i
}

// Normalize returns a sorted copy of x with duplicates removed.
func Normalize(x []int) IndexSet {
	out := make(IndexSet, len(x))
	copy(out, x)
	sort.Ints(out)
	w := 0
	for i, v := range out {
		if i > 0 && v == out[w-1] {
			continue
		}
		out[w] = v
		w++
	}
	return out[:w]
}

// ToIndexes converts segmentations to boundary index sets and returns the
// total mass they share. It fails with ErrInconsistentMass when the
// segmentations do not all add up to the same total.
func ToIndexes(segs []Segmentation) ([]IndexSet, int, error) {
	if len(segs) == 0 {
		return nil, 0, ErrEmptySegmentation
	}
	sets := make([]IndexSet, len(segs))
	mass := -1
	for i, s := range segs {
		if err := s.Validate(); err != nil {
			return nil, 0, fmt.Errorf("segmentation %d: %w", i, err)
		}
		m := s.Mass()
		if mass == -1 {
			mass = m
		} else if m != mass {
			return nil, 0, fmt.Errorf("%w: segmentation %d sums to %d, expected %d",
				ErrInconsistentMass, i, m, mass)
		}
		sets[i] = s.Indexes()
	}
	return sets, mass, nil
}

// FromIndexes converts boundary index sets back to segment masses for a
// document of total mass m. Each set must be strictly increasing and lie
// within [1, m-1]; use Normalize first when that is not guaranteed.
func FromIndexes(sets []IndexSet, m int) ([]Segmentation, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: total mass %d", ErrNonPositiveMass, m)
	}
	segs := make([]Segmentation, len(sets))
	for i, set := range sets {
		seg := make(Segmentation, 0, len(set)+1)
		prev := 0
		for _, b := range set {
			if b <= prev || b >= m {
				return nil, fmt.Errorf("%w: index %d after %d with total mass %d",
					ErrMalformedIndexes, b, prev, m)
			}
			seg = append(seg, b-prev)
			prev = b
		}
		segs[i] = append(seg, m-prev)
	}
	return segs, nil
}

// FromIndex is FromIndexes for a single set.
func FromIndex(set IndexSet, m int) (Segmentation, error) {
	segs, err := FromIndexes([]IndexSet{set}, m)
	if err != nil {
		return nil, err
	}
	return segs[0], nil
}
