package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCorpus() Corpus {
	return Corpus{
		"doc:b": {"alice": {2, 2}, "bob": {1, 3}},
		"doc:a": {"alice": {3, 3, 4}, "bob": {3, 4, 3}},
	}
}

func TestCorpusCoders(t *testing.T) {
	coders, err := sampleCorpus().Coders()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, coders)
}

func TestCorpusCodersMismatch(t *testing.T) {
	c := sampleCorpus()
	c["doc:c"] = Document{"alice": {4}, "carol": {4}}

	_, err := c.Coders()
	require.ErrorIs(t, err, ErrCoderSetMismatch)
	assert.Contains(t, err.Error(), "missing bob")
	assert.Contains(t, err.Error(), "extra carol")
}

func TestDocumentOrdered(t *testing.T) {
	doc := Document{"zed": {1, 1}, "amy": {2}}
	assert.Equal(t, []Segmentation{{2}, {1, 1}}, doc.Ordered())

	m, err := doc.Mass()
	require.NoError(t, err)
	assert.Equal(t, 2, m)
}

func TestOverall(t *testing.T) {
	segs, err := Overall(sampleCorpus())
	require.NoError(t, err)
	want := []Segmentation{
		{3, 3, 4, 2, 2},
		{3, 4, 3, 1, 3},
	}
	if diff := cmp.Diff(want, segs); diff != "" {
		t.Errorf("overall mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterCoders(t *testing.T) {
	filtered := FilterCoders(sampleCorpus(), []string{"bob"})
	assert.Len(t, filtered, 2)
	for _, doc := range filtered {
		assert.Equal(t, []string{"bob"}, doc.Coders())
	}
}

func TestMerge(t *testing.T) {
	extra := Corpus{
		"doc:a": {"gold": {3, 7}},
		"doc:b": {"gold": {4}},
	}
	merged, err := Merge(sampleCorpus(), extra)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "gold"}, merged["doc:a"].Coders())
	assert.Equal(t, Segmentation{4}, merged["doc:b"]["gold"])

	_, err = Merge(sampleCorpus(), Corpus{"doc:a": {"gold": {10}}})
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	tests := []struct {
		name string
		s    Segmentation
		onto Segmentation
		want Segmentation
	}{
		{name: "snap to nearest", s: Segmentation{2, 5, 3}, onto: Segmentation{3, 4, 3}, want: Segmentation{3, 4, 3}},
		{name: "collapse duplicates", s: Segmentation{1, 1, 8}, onto: Segmentation{3, 7}, want: Segmentation{3, 7}},
		{name: "tie goes to earlier", s: Segmentation{5, 5}, onto: Segmentation{4, 2, 4}, want: Segmentation{4, 6}},
		{name: "no target boundaries", s: Segmentation{5, 5}, onto: Segmentation{10}, want: Segmentation{10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tt.s, tt.onto)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Project(Segmentation{5}, Segmentation{6})
	assert.ErrorIs(t, err, ErrInconsistentMass)
}
