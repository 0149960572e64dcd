package main

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"slices"

	"github.com/dusk-indust/segagree/internal/agreement"
	"github.com/dusk-indust/segagree/internal/segfile"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

var significant = color.New(color.FgRed)

// report holds one method's results over a corpus.
type report struct {
	method  agreement.Method
	perDoc  map[string]agreement.Result
	overall agreement.Result
}

// byCoefficient returns document IDs sorted by coefficient, highest first.
// Undefined coefficients sort last.
func byCoefficient(scores map[string]float64) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		x, y := scores[a], scores[b]
		switch {
		case math.IsNaN(x) && math.IsNaN(y):
		case math.IsNaN(x):
			return 1
		case math.IsNaN(y):
			return -1
		case x != y:
			return cmp.Compare(y, x)
		}
		return cmp.Compare(a, b)
	})
	return ids
}

func formatResult(r agreement.Result, interval float64) string {
	if r.Undefined() {
		return "undefined"
	}
	if !r.HasVariance() {
		return fmt.Sprintf("%.2f", r.Coefficient)
	}
	margin, err := agreement.ErrorMargin(r.Variance, interval)
	if err != nil {
		return fmt.Sprintf("%.2f", r.Coefficient)
	}
	return fmt.Sprintf("%.2f±%.2f", r.Coefficient, margin)
}

func formatComparison(r, ref agreement.Result) string {
	if r.Undefined() || ref.Undefined() || !r.HasVariance() || !ref.HasVariance() {
		return ""
	}
	c := agreement.Compare(r, ref)
	s := fmt.Sprintf(" (%+.2f, z: %.2f)", c.Drop, c.Z)
	if c.Significant() {
		return significant.Sprint(s)
	}
	return s
}

// printReport writes one line per document, sorted by coefficient, then an
// Overall line. When ref is set each line also shows the change against it.
func printReport(w io.Writer, r report, interval float64, ref *report) {
	fmt.Fprintf(w, "== %s ==\n", r.method)
	scores := make(map[string]float64, len(r.perDoc))
	for id, res := range r.perDoc {
		scores[id] = res.Coefficient
	}
	for _, id := range byCoefficient(scores) {
		line := fmt.Sprintf("%s: %s", id, formatResult(r.perDoc[id], interval))
		if ref != nil {
			if prev, ok := ref.perDoc[id]; ok {
				line += formatComparison(r.perDoc[id], prev)
			}
		}
		fmt.Fprintln(w, line)
	}
	line := "Overall: " + formatResult(r.overall, interval)
	if ref != nil {
		line += formatComparison(r.overall, ref.overall)
	}
	fmt.Fprintln(w, line)
}

// writeFile writes a derived segmentation file to out, to the configured
// output directory, or to stdout, in that order of preference.
func (a *app) writeFile(out string, f *segfile.File) error {
	if out == "" && a.cfg.OutputDir != "" {
		out = filepath.Join(a.cfg.OutputDir, f.ID+".json")
	}
	if out == "" {
		return segfile.Encode(a.stdout, f)
	}
	if err := segfile.Save(out, f); err != nil {
		return err
	}
	a.log.Info("wrote segmentation file", zap.String("path", out), zap.String("id", f.ID), zap.Int("documents", len(f.Items)))
	return nil
}
