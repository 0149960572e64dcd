package agreement

import (
	"testing"

	"github.com/dusk-indust/segagree/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPiAgainst(t *testing.T) {
	pi, err := PiAgainst(segment.IndexSet{3, 6}, segment.IndexSet{3}, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, pi, tolerance)

	pi, err = PiAgainst(segment.IndexSet{3, 6}, segment.IndexSet{3, 6}, 10)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pi, tolerance)

	_, err = PiAgainst(nil, nil, 10)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestMeanPi(t *testing.T) {
	coders := segment.Corpus{
		"doc:1": {"a": {3, 3, 4}, "b": {3, 4, 3}},
		"doc:2": {"a": {4, 6}, "b": {4, 6}},
	}
	gold := segment.Corpus{
		"doc:1": {"gold": {3, 7}},
		"doc:2": {"gold": {4, 6}},
	}
	report, err := MeanPi(coders, gold, "gold")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, report.PerDocument["doc:1"], tolerance)
	assert.InDelta(t, 1.0, report.PerDocument["doc:2"], tolerance)
	assert.InDelta(t, 0.8, report.Overall, tolerance)
}

func TestMeanPiErrors(t *testing.T) {
	coders := segment.Corpus{"doc:1": {"a": {3, 7}, "b": {5, 5}}}

	_, err := MeanPi(coders, segment.Corpus{"doc:1": {"gold": {3, 6}}}, "gold")
	assert.ErrorIs(t, err, segment.ErrInconsistentMass)

	_, err = MeanPi(coders, segment.Corpus{"doc:1": {"other": {10}}}, "gold")
	assert.Error(t, err)
}
