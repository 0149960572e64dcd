package agreement

import (
	"context"
	"testing"

	"github.com/dusk-indust/segagree/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() segment.Corpus {
	return segment.Corpus{
		"doc:1": {"a": {3, 3, 4}, "b": {3, 4, 3}},
		"doc:2": {"a": {2, 5, 3}, "b": {2, 5, 3}},
	}
}

func TestPerDocument(t *testing.T) {
	f, err := Coefficient(MultiPi, 0)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 4} {
		results, err := PerDocument(context.Background(), testCorpus(), f, workers)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.InDelta(t, 5.0/14.0, results["doc:1"].Coefficient, tolerance)
		assert.InDelta(t, 1.0, results["doc:2"].Coefficient, tolerance)
	}
}

func TestPerDocumentDegenerateDocumentDoesNotAbort(t *testing.T) {
	c := testCorpus()
	c["doc:3"] = segment.Document{"a": {5}, "b": {5}}

	f, err := Coefficient(MultiPi, 0)
	require.NoError(t, err)

	results, err := PerDocument(context.Background(), c, f, 2)
	require.ErrorIs(t, err, ErrDegenerate)
	assert.Contains(t, err.Error(), "doc:3")
	require.Len(t, results, 3)
	assert.True(t, results["doc:3"].Undefined())
	assert.InDelta(t, 1.0, results["doc:2"].Coefficient, tolerance)
}

func TestPerDocumentFatalErrors(t *testing.T) {
	f, err := Coefficient(MultiPi, 0)
	require.NoError(t, err)

	mismatch := testCorpus()
	mismatch["doc:3"] = segment.Document{"a": {5}, "c": {5}}
	_, err = PerDocument(context.Background(), mismatch, f, 0)
	assert.ErrorIs(t, err, segment.ErrCoderSetMismatch)

	mass := testCorpus()
	mass["doc:3"] = segment.Document{"a": {5}, "b": {6}}
	results, err := PerDocument(context.Background(), mass, f, 0)
	assert.ErrorIs(t, err, segment.ErrInconsistentMass)
	assert.NotErrorIs(t, err, ErrDegenerate)
	assert.Nil(t, results)
}

func TestPerDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, err := Coefficient(MultiPi, 0)
	require.NoError(t, err)
	_, err = PerDocument(ctx, testCorpus(), f, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOverall(t *testing.T) {
	f, err := Coefficient(MultiPi, 0)
	require.NoError(t, err)

	got, err := Overall(testCorpus(), f)
	require.NoError(t, err)

	want, err := Strict([]segment.Segmentation{
		{3, 3, 4, 2, 5, 3},
		{3, 4, 3, 2, 5, 3},
	}, ExpectedPi)
	require.NoError(t, err)
	assert.InDelta(t, want.Coefficient, got.Coefficient, tolerance)
	assert.InDelta(t, want.Variance, got.Variance, tolerance)
}

func TestCoefficientMethods(t *testing.T) {
	for _, m := range Methods {
		t.Run(m.String(), func(t *testing.T) {
			f, err := Coefficient(m, 2)
			require.NoError(t, err)
			r, err := f(twoCoders)
			require.NoError(t, err)
			assert.LessOrEqual(t, r.Coefficient, 1.0)

			parsed, err := ParseMethod(m.String())
			require.NoError(t, err)
			assert.Equal(t, m, parsed)
		})
	}

	_, err := Coefficient(Method(99), 0)
	assert.Error(t, err)
	_, err = ParseMethod("tau")
	assert.Error(t, err)
	assert.True(t, WindowAlpha.Windowed())
	assert.False(t, MultiKappa.Windowed())
}
