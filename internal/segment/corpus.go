package segment

import (
	"fmt"
	"sort"
	"strings"
)

// Document maps coder IDs to that coder's segmentation of one document.
type Document map[string]Segmentation

// Corpus maps document IDs to documents.
type Corpus map[string]Document

// Coders returns the document's coder IDs in sorted order.
func (d Document) Coders() []string {
	coders := make([]string, 0, len(d))
	for c := range d {
		coders = append(coders, c)
	}
	sort.Strings(coders)
	return coders
}

// Ordered returns the document's segmentations ordered by coder ID, so that
// every caller sees coders in the same sequence.
func (d Document) Ordered() []Segmentation {
	coders := d.Coders()
	segs := make([]Segmentation, len(coders))
	for i, c := range coders {
		segs[i] = d[c]
	}
	return segs
}

// Mass returns the total mass shared by all segmentations of the document.
func (d Document) Mass() (int, error) {
	_, m, err := ToIndexes(d.Ordered())
	return m, err
}

// DocumentIDs returns the corpus document IDs in sorted order.
func (c Corpus) DocumentIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Coders returns the sorted set of coders shared by every document. It fails
// with ErrCoderSetMismatch when any document differs from the others.
func (c Corpus) Coders() ([]string, error) {
	var (
		want  []string
		first string
	)
	for _, id := range c.DocumentIDs() {
		got := c[id].Coders()
		if want == nil {
			want, first = got, id
			continue
		}
		if missing, extra := symmetricDifference(want, got); len(missing)+len(extra) > 0 {
			return nil, fmt.Errorf("%w: %q vs %q (missing %s, extra %s)", ErrCoderSetMismatch,
				first, id, strings.Join(missing, ","), strings.Join(extra, ","))
		}
	}
	return want, nil
}

// symmetricDifference returns the entries of want absent from got and the
// entries of got absent from want. Both inputs must be sorted.
func symmetricDifference(want, got []string) (missing, extra []string) {
	i, j := 0, 0
	for i < len(want) || j < len(got) {
		switch {
		case j == len(got) || (i < len(want) && want[i] < got[j]):
			missing = append(missing, want[i])
			i++
		case i == len(want) || got[j] < want[i]:
			extra = append(extra, got[j])
			j++
		default:
			i++
			j++
		}
	}
	return missing, extra
}

// Overall concatenates each coder's segmentations across all documents, in
// sorted document order, producing one long segmentation per coder ordered by
// coder ID.
func Overall(c Corpus) ([]Segmentation, error) {
	coders, err := c.Coders()
	if err != nil {
		return nil, err
	}
	ids := c.DocumentIDs()
	segs := make([]Segmentation, len(coders))
	for i, coder := range coders {
		for _, id := range ids {
			segs[i] = append(segs[i], c[id][coder]...)
		}
	}
	return segs, nil
}

// FilterCoders returns a copy of c keeping only the named coders.
func FilterCoders(c Corpus, keep []string) Corpus {
	allowed := make(map[string]bool, len(keep))
	for _, k := range keep {
		allowed[k] = true
	}
	out := make(Corpus, len(c))
	for id, doc := range c {
		filtered := make(Document)
		for coder, seg := range doc {
			if allowed[coder] {
				filtered[coder] = seg
			}
		}
		out[id] = filtered
	}
	return out
}

// Merge combines the coders of two corpora covering the same documents. A
// coder present in both keeps the segmentation from b.
func Merge(a, b Corpus) (Corpus, error) {
	ida, idb := a.DocumentIDs(), b.DocumentIDs()
	if missing, extra := symmetricDifference(ida, idb); len(missing)+len(extra) > 0 {
		return nil, fmt.Errorf("segment: merge over different documents (missing %s, extra %s)",
			strings.Join(missing, ","), strings.Join(extra, ","))
	}
	out := make(Corpus, len(a))
	for _, id := range ida {
		doc := make(Document, len(a[id])+len(b[id]))
		for coder, seg := range a[id] {
			doc[coder] = seg
		}
		for coder, seg := range b[id] {
			doc[coder] = seg
		}
		out[id] = doc
	}
	return out, nil
}

// Project snaps every boundary of s onto the nearest boundary of onto and
// returns the resulting segmentation. Equidistant boundaries snap to the
// earlier target. A target without boundaries projects to a single segment.
func Project(s, onto Segmentation) (Segmentation, error) {
	sets, m, err := ToIndexes([]Segmentation{s, onto})
	if err != nil {
		return nil, err
	}
	from, targets := sets[0], sets[1]
	if len(targets) == 0 {
		return Segmentation{m}, nil
	}
	snapped := make([]int, 0, len(from))
	for _, b := range from {
		snapped = append(snapped, closest(b, targets))
	}
	return FromIndex(Normalize(snapped), m)
}

// closest returns the entry of sorted that is nearest to v.
func closest(v int, sorted IndexSet) int {
	j := sort.SearchInts(sorted, v)
	switch {
	case j == 0:
		return sorted[0]
	case j == len(sorted):
		return sorted[len(sorted)-1]
	}
	lo, hi := sorted[j-1], sorted[j]
	if hi-v < v-lo {
		return hi
	}
	return lo
}
