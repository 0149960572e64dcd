// Package baseline produces reference segmentations that agreement scores
// can be compared against: a null segmentation with no boundaries and a
// random one with the corpus' empirical boundary rate.
package baseline

import (
	"fmt"
	"math/rand/v2"

	"github.com/dusk-indust/segagree/internal/segment"
)

const (
	// NullCoder is the coder ID of null segmentations.
	NullCoder = "null"
	// RandomCoder is the coder ID of random segmentations.
	RandomCoder = "random"
)

// Null returns a corpus with one single-segment segmentation per document.
func Null(c segment.Corpus) (segment.Corpus, error) {
	out := make(segment.Corpus, len(c))
	for _, id := range c.DocumentIDs() {
		m, err := c[id].Mass()
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out[id] = segment.Document{NullCoder: {m}}
	}
	return out, nil
}

// BoundaryRate is the proportion of potential boundaries, over every coder
// and document, at which a coder placed a boundary.
func BoundaryRate(c segment.Corpus) (float64, error) {
	segs, err := segment.Overall(c)
	if err != nil {
		return 0, err
	}
	sets, m, err := segment.ToIndexes(segs)
	if err != nil {
		return 0, err
	}
	placed := 0
	for _, set := range sets {
		placed += len(set)
	}
	// Each document boundary is a forced cut in the concatenation, and
	// document ends are not potential boundaries.
	possible := (m - len(c)) * len(sets)
	if possible <= 0 {
		return 0, nil
	}
	return float64(placed-(len(c)-1)*len(sets)) / float64(possible), nil
}

// Random returns a corpus with one random segmentation per document. Each
// potential boundary is placed independently with the corpus boundary rate.
func Random(c segment.Corpus, rng *rand.Rand) (segment.Corpus, error) {
	p, err := BoundaryRate(c)
	if err != nil {
		return nil, err
	}
	out := make(segment.Corpus, len(c))
	for _, id := range c.DocumentIDs() {
		m, err := c[id].Mass()
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		s, err := RandomSegmentation(m, p, rng)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		out[id] = segment.Document{RandomCoder: s}
	}
	return out, nil
}

// RandomSegmentation places a boundary at each of the m-1 potential
// positions with probability p.
func RandomSegmentation(m int, p float64, rng *rand.Rand) (segment.Segmentation, error) {
	var idx segment.IndexSet
	for i := 1; i < m; i++ {
		if rng.Float64() < p {
			idx = append(idx, i)
		}
	}
	return segment.FromIndex(idx, m)
}
