package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dusk-indust/segagree/internal/segfile"
	"github.com/dusk-indust/segagree/internal/segment"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

var samplePath = filepath.Join("..", "..", "testdata", "segmentations", "sample.json")

// runCLI runs the command with an empty config directory and returns its
// stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", t.TempDir(), "-log-level", "error"}, args...)
	err := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunVersion(t *testing.T) {
	out, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestRunCommandErrors(t *testing.T) {
	_, err := runCLI(t)
	assert.ErrorContains(t, err, "no command")

	_, err = runCLI(t, "frobnicate")
	assert.ErrorContains(t, err, `unknown command "frobnicate"`)

	_, err = runCLI(t, "strict")
	assert.ErrorContains(t, err, "usage")

	_, err = runCLI(t, "strict", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStrictReport(t *testing.T) {
	out, err := runCLI(t, "strict", "-coder", "a", "-coder", "b", samplePath)
	require.NoError(t, err)

	want := strings.Join([]string{
		"== multi-pi ==",
		"doc:2: 1.00±0.65",
		"doc:1: 0.36±0.65",
		"Overall: 0.73±0.45",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestStrictKappaFromConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "segagree.yml"), []byte("expected: kappa\ninterval: 0.5\n"), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", dir, "strict", "-positive", samplePath}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "== multi-kappa ==")
	assert.Contains(t, out, "== bias ==")
	assert.Contains(t, out, "== positive-pi ==")
	assert.NotContains(t, out, "== multi-pi ==")
}

func TestStrictEvaluate(t *testing.T) {
	extra := segfile.New("extra", segment.Corpus{
		"doc:1": {"d": {3, 3, 4}},
		"doc:2": {"d": {2, 5, 3}},
	})
	path := filepath.Join(t.TempDir(), "extra.json")
	require.NoError(t, segfile.Save(path, extra))

	out, err := runCLI(t, "strict", "-coder", "a", "-coder", "b", "-evaluate", path, samplePath)
	require.NoError(t, err)
	assert.Contains(t, out, "z: ")
	assert.True(t, strings.HasPrefix(out, "== multi-pi ==\n"))
}

func TestNearReport(t *testing.T) {
	out, err := runCLI(t, "near", "-reference", "a", "-coder", "a", "-coder", "b", samplePath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "window size: 2", lines[0])
	assert.Equal(t, "== window-pi ==", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "doc:2: 1.00"))
	assert.True(t, strings.HasPrefix(lines[3], "doc:1: 0.50"))
	assert.True(t, strings.HasPrefix(lines[4], "Overall: "))

	out, err = runCLI(t, "near", "-alpha", "-k", "2", samplePath)
	require.NoError(t, err)
	assert.Contains(t, out, "== window-alpha ==")
}

// TestGoldGolden compares derived gold output with testdata/golden/gold.json.
// Run with -update to regenerate it.
func TestGoldGolden(t *testing.T) {
	out, err := runCLI(t, "gold", samplePath)
	require.NoError(t, err)

	goldenPath := filepath.Join("..", "..", "testdata", "golden", "gold.json")
	if *update {
		require.NoError(t, os.WriteFile(goldenPath, []byte(out), 0o644))
		t.Logf("updated %s", goldenPath)
		return
	}
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, string(golden), out, "gold output does not match golden file")
}

func TestGoldToOutputDir(t *testing.T) {
	cfgDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "derived")
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "segagree.yml"), []byte("outputDir: "+outDir+"\ngoldMode: near\n"), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfgDir, "gold", samplePath}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	f, err := segfile.Load(filepath.Join(outDir, "sample-gold.json"))
	require.NoError(t, err)
	assert.Equal(t, segment.Segmentation{2, 5, 3}, f.Items["doc:2"]["gold"])
}

func TestMeanPi(t *testing.T) {
	goldPath := filepath.Join("..", "..", "testdata", "golden", "gold.json")
	out, err := runCLI(t, "meanpi", samplePath, goldPath)
	require.NoError(t, err)

	want := strings.Join([]string{
		"== mean pi ==",
		"doc:2: 1.00",
		"doc:1: 0.79",
		"Overall: 0.89",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func decodeOutput(t *testing.T, out string) *segfile.File {
	t.Helper()
	f, err := segfile.Decode(strings.NewReader(out))
	require.NoError(t, err)
	return f
}

func TestNull(t *testing.T) {
	out, err := runCLI(t, "null", samplePath)
	require.NoError(t, err)

	f := decodeOutput(t, out)
	assert.Equal(t, "sample-null", f.ID)
	want := segment.Corpus{
		"doc:1": {"null": {10}},
		"doc:2": {"null": {10}},
	}
	if diff := cmp.Diff(want, f.Items); diff != "" {
		t.Errorf("null corpus mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomIsSeeded(t *testing.T) {
	first, err := runCLI(t, "random", "-seed", "7", samplePath)
	require.NoError(t, err)
	second, err := runCLI(t, "random", "-seed", "7", samplePath)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f := decodeOutput(t, first)
	assert.Equal(t, "sample-random", f.ID)
	for _, id := range []string{"doc:1", "doc:2"} {
		s, ok := f.Items[id]["random"]
		require.True(t, ok, "document %s", id)
		assert.Equal(t, 10, s.Mass())
	}
}

func TestFilter(t *testing.T) {
	out, err := runCLI(t, "filter", samplePath, "A", "c")
	require.NoError(t, err)

	f := decodeOutput(t, out)
	assert.Equal(t, "a&c", f.ID)
	assert.Equal(t, []string{"c"}, f.Items["doc:1"].Coders())

	_, err = runCLI(t, "filter", samplePath)
	assert.ErrorContains(t, err, "usage")
}

func TestProject(t *testing.T) {
	dir := t.TempDir()
	onto := filepath.Join(dir, "onto.json")
	require.NoError(t, segfile.Save(onto, segfile.New("ref", segment.Corpus{
		"doc:1": {"r": {5, 5}},
		"doc:2": {"r": {2, 8}},
	})))

	out, err := runCLI(t, "project", samplePath, onto)
	require.NoError(t, err)

	f := decodeOutput(t, out)
	assert.Equal(t, "sample-projected-onto-ref", f.ID)
	want := segment.Corpus{
		"doc:1": {"a": {5, 5}, "b": {5, 5}, "c": {5, 5}},
		"doc:2": {"a": {2, 8}, "b": {2, 8}, "c": {2, 8}},
	}
	if diff := cmp.Diff(want, f.Items); diff != "" {
		t.Errorf("projected corpus mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectionTarget(t *testing.T) {
	doc := segment.Document{"x": {4, 6}, "y": {10}}

	_, err := projectionTarget(doc, "")
	assert.ErrorContains(t, err, "-onto-coder")

	s, err := projectionTarget(doc, "y")
	require.NoError(t, err)
	assert.Equal(t, segment.Segmentation{10}, s)

	_, err = projectionTarget(doc, "z")
	assert.Error(t, err)
}
