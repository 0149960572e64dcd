package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dusk-indust/segagree/internal/agreement"
	"github.com/dusk-indust/segagree/internal/baseline"
	"github.com/dusk-indust/segagree/internal/gold"
	"github.com/dusk-indust/segagree/internal/segfile"
	"github.com/dusk-indust/segagree/internal/segment"
)

func (a *app) runGold(args []string) error {
	fs := a.newFlagSet("gold")
	near := fs.Bool("near", a.cfg.GoldMode == "near", "accept boundaries that coders place within the window of each other")
	out := fs.String("o", "", "write to this file instead of stdout")
	var coders stringList
	fs.Var(&coders, "coder", "restrict to this coder (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: segagree gold [flags] FILE")
	}

	f, err := segfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	mode := gold.Exact
	if *near {
		mode = gold.Near
	}
	items, err := gold.DeriveCorpus(a.filtered(f.Items, coders), mode)
	if err != nil {
		return err
	}
	return a.writeFile(*out, segfile.New(f.ID+"-gold", items))
}

func (a *app) runMeanPi(args []string) error {
	fs := a.newFlagSet("meanpi")
	goldCoder := fs.String("gold-coder", gold.Coder, "coder ID of the gold segmentations")
	var coders stringList
	fs.Var(&coders, "coder", "restrict to this coder (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: segagree meanpi [flags] FILE GOLD")
	}

	f, err := segfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	g, err := segfile.Load(fs.Arg(1))
	if err != nil {
		return err
	}
	rep, err := agreement.MeanPi(a.filtered(f.Items, coders), g.Items, *goldCoder)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "== mean pi ==")
	for _, id := range byCoefficient(rep.PerDocument) {
		fmt.Fprintf(a.stdout, "%s: %.2f\n", id, rep.PerDocument[id])
	}
	fmt.Fprintf(a.stdout, "Overall: %.2f\n", rep.Overall)
	return nil
}

func (a *app) runRandom(args []string) error {
	fs := a.newFlagSet("random")
	seed := fs.Uint64("seed", 0, "random seed (0 seeds from the clock)")
	out := fs.String("o", "", "write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: segagree random [flags] FILE")
	}

	f, err := segfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	items, err := baseline.Random(f.Items, rand.New(rand.NewPCG(s, s)))
	if err != nil {
		return err
	}
	return a.writeFile(*out, segfile.New(f.ID+"-"+baseline.RandomCoder, items))
}

func (a *app) runNull(args []string) error {
	fs := a.newFlagSet("null")
	out := fs.String("o", "", "write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: segagree null [flags] FILE")
	}

	f, err := segfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	items, err := baseline.Null(f.Items)
	if err != nil {
		return err
	}
	return a.writeFile(*out, segfile.New(f.ID+"-"+baseline.NullCoder, items))
}

func (a *app) runFilter(args []string) error {
	fs := a.newFlagSet("filter")
	out := fs.String("o", "", "write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: segagree filter [flags] FILE CODER...")
	}

	f, err := segfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	coders := fs.Args()[1:]
	items := segment.FilterCoders(f.Items, coders)
	if _, err := items.Coders(); err != nil {
		return err
	}
	return a.writeFile(*out, segfile.New(strings.ToLower(strings.Join(coders, "&")), items))
}

func (a *app) runProject(args []string) error {
	fs := a.newFlagSet("project")
	ontoCoder := fs.String("onto-coder", "", "coder of ONTO to project onto (default: its only coder)")
	out := fs.String("o", "", "write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: segagree project [flags] FILE ONTO")
	}

	f, err := segfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	onto, err := segfile.Load(fs.Arg(1))
	if err != nil {
		return err
	}

	items := make(segment.Corpus, len(f.Items))
	for _, id := range f.Items.DocumentIDs() {
		target, err := projectionTarget(onto.Items[id], *ontoCoder)
		if err != nil {
			return fmt.Errorf("document %s: %w", id, err)
		}
		doc := make(segment.Document, len(f.Items[id]))
		for coder, s := range f.Items[id] {
			if doc[coder], err = segment.Project(s, target); err != nil {
				return fmt.Errorf("document %s, coder %s: %w", id, coder, err)
			}
		}
		items[id] = doc
	}
	return a.writeFile(*out, segfile.New(f.ID+"-projected-onto-"+onto.ID, items))
}

func projectionTarget(doc segment.Document, coder string) (segment.Segmentation, error) {
	if coder != "" {
		s, ok := doc[coder]
		if !ok {
			return nil, fmt.Errorf("no segmentation by %q to project onto", coder)
		}
		return s, nil
	}
	switch len(doc) {
	case 0:
		return nil, errors.New("no segmentation to project onto")
	case 1:
		return doc.Ordered()[0], nil
	default:
		return nil, fmt.Errorf("%d coders to project onto; pick one with -onto-coder", len(doc))
	}
}
