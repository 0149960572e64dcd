package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dusk-indust/segagree/internal/agreement"
	"github.com/dusk-indust/segagree/internal/segfile"
	"github.com/dusk-indust/segagree/internal/segment"
	"github.com/dusk-indust/segagree/internal/window"
	"go.uber.org/zap"
)

func (a *app) runStrict(ctx context.Context, args []string) error {
	fs := a.newFlagSet("strict")
	kappa := fs.Bool("kappa", a.cfg.Expected == "kappa", "report multi-kappa and annotator bias instead of multi-pi")
	positive := fs.Bool("positive", false, "also report multi-pi on positive judgments")
	evaluate := fs.String("evaluate", "", "segmentation file whose coders are added and compared")
	var coders stringList
	fs.Var(&coders, "coder", "restrict to this coder (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: segagree strict [flags] FILE")
	}

	methods := []agreement.Method{agreement.MultiPi}
	if *kappa {
		methods = []agreement.Method{agreement.MultiKappa, agreement.Bias}
	}
	if *positive {
		methods = append(methods, agreement.PositivePi)
	}
	return a.agreementReports(ctx, fs.Arg(0), *evaluate, coders, methods, 0)
}

func (a *app) runNear(ctx context.Context, args []string) error {
	fs := a.newFlagSet("near")
	alpha := fs.Bool("alpha", false, "report Krippendorff's alpha instead of pi")
	reference := fs.String("reference", a.cfg.Reference, "coder whose segmentations fix the window size")
	k := fs.Int("k", a.cfg.WindowSize, "window size (0 derives it)")
	evaluate := fs.String("evaluate", "", "segmentation file whose coders are added and compared")
	var coders stringList
	fs.Var(&coders, "coder", "restrict to this coder (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: segagree near [flags] FILE")
	}

	size := *k
	if size == 0 && *reference != "" {
		f, err := segfile.Load(fs.Arg(0))
		if err != nil {
			return err
		}
		if size, err = window.ReferenceSize(f.Items, *reference); err != nil {
			return err
		}
	}
	if size > 0 {
		fmt.Fprintf(a.stdout, "window size: %d\n", size)
	}

	method := agreement.WindowPi
	if *alpha {
		method = agreement.WindowAlpha
	}
	return a.agreementReports(ctx, fs.Arg(0), *evaluate, coders, []agreement.Method{method}, size)
}

// agreementReports loads path, computes each method and prints the results.
// With evaluate set, the coders of that file are merged in and the merged
// results are compared with those of path alone.
func (a *app) agreementReports(ctx context.Context, path, evaluate string, coders []string, methods []agreement.Method, k int) error {
	f, err := segfile.Load(path)
	if err != nil {
		return err
	}
	base := a.filtered(f.Items, coders)

	var merged segment.Corpus
	if evaluate != "" {
		extra, err := segfile.Load(evaluate)
		if err != nil {
			return err
		}
		if merged, err = segment.Merge(base, extra.Items); err != nil {
			return fmt.Errorf("evaluate %s: %w", evaluate, err)
		}
	}

	for _, m := range methods {
		r, err := a.compute(ctx, base, m, k)
		if err != nil {
			return err
		}
		if merged == nil {
			printReport(a.stdout, r, a.cfg.Interval, nil)
			continue
		}
		mr, err := a.compute(ctx, merged, m, k)
		if err != nil {
			return err
		}
		printReport(a.stdout, mr, a.cfg.Interval, &r)
	}
	return nil
}

// compute runs method m per document and overall. Undefined coefficients
// are logged and reported as such rather than failing the command.
func (a *app) compute(ctx context.Context, c segment.Corpus, m agreement.Method, k int) (report, error) {
	f, err := agreement.Coefficient(m, k)
	if err != nil {
		return report{}, err
	}
	perDoc, err := agreement.PerDocument(ctx, c, f, a.cfg.Workers)
	if err != nil && !errors.Is(err, agreement.ErrDegenerate) {
		return report{}, err
	}
	if err != nil {
		a.log.Warn("undefined coefficients", zap.Stringer("method", m), zap.Error(err))
	}
	overall, err := agreement.Overall(c, f)
	if err != nil && !errors.Is(err, agreement.ErrDegenerate) {
		return report{}, err
	}
	a.log.Debug("computed agreement", zap.Stringer("method", m), zap.Int("documents", len(perDoc)), zap.Int("window", k))
	return report{method: m, perDoc: perDoc, overall: overall}, nil
}

// filtered restricts c to the given coders, or to the configured ones.
func (a *app) filtered(c segment.Corpus, coders []string) segment.Corpus {
	if len(coders) == 0 {
		coders = a.cfg.Coders
	}
	if len(coders) == 0 {
		return c
	}
	return segment.FilterCoders(c, coders)
}
