package agreement

import (
	"fmt"
	"math"

	"github.com/dusk-indust/segagree/internal/segment"
	"gonum.org/v1/gonum/stat"
)

// PiAgainst computes π between one coder's boundaries and gold boundaries
// over a document of total mass m.
func PiAgainst(coder, gold segment.IndexSet, m int) (float64, error) {
	i := m - 1
	if i < 1 {
		return math.NaN(), fmt.Errorf("%w: total mass %d leaves no potential boundaries", ErrDegenerate, m)
	}
	c, g := segment.Normalize(coder), segment.Normalize(gold)
	both := 0
	for _, b := range c {
		if g.Contains(b) {
			both++
		}
	}
	either := len(c) + len(g) - both

	o := float64(both+i-either) / float64(i)
	n := float64(len(c) + len(g))
	fi := float64(i)
	e := (n*n + (2*fi-n)*(2*fi-n)) / (4 * fi * fi)
	return chanceCorrected(o, e)
}

// PisAgainstGold returns, in input order, each segmentation's π against the
// gold segmentation.
func PisAgainstGold(segs []segment.Segmentation, gold segment.Segmentation) ([]float64, error) {
	all := append([]segment.Segmentation{gold}, segs...)
	sets, m, err := segment.ToIndexes(all)
	if err != nil {
		return nil, err
	}
	pis := make([]float64, len(segs))
	for i, set := range sets[1:] {
		if pis[i], err = PiAgainst(set, sets[0], m); err != nil {
			return nil, fmt.Errorf("segmentation %d: %w", i, err)
		}
	}
	return pis, nil
}

// MeanPiReport holds mean π against a gold segmentation per document and
// over every coder of every document.
type MeanPiReport struct {
	PerDocument map[string]float64 `json:"perDocument"`
	Overall     float64            `json:"overall"`
}

// MeanPi compares every coder in c with the gold segmentation of the same
// document in gold, found under goldCoder.
func MeanPi(c, gold segment.Corpus, goldCoder string) (MeanPiReport, error) {
	if _, err := c.Coders(); err != nil {
		return MeanPiReport{}, err
	}
	report := MeanPiReport{PerDocument: make(map[string]float64, len(c))}
	var all []float64
	for _, id := range c.DocumentIDs() {
		g, ok := gold[id][goldCoder]
		if !ok {
			return MeanPiReport{}, fmt.Errorf("agreement: document %s has no %q segmentation in the gold corpus", id, goldCoder)
		}
		pis, err := PisAgainstGold(c[id].Ordered(), g)
		if err != nil {
			return MeanPiReport{}, fmt.Errorf("document %s: %w", id, err)
		}
		report.PerDocument[id] = stat.Mean(pis, nil)
		all = append(all, pis...)
	}
	if len(all) == 0 {
		report.Overall = math.NaN()
		return report, nil
	}
	report.Overall = stat.Mean(all, nil)
	return report, nil
}
