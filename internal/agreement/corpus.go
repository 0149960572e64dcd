package agreement

import (
	"context"
	"errors"
	"fmt"

	"github.com/dusk-indust/segagree/internal/segment"
	"golang.org/x/sync/errgroup"
)

// PerDocument evaluates f on every document of the corpus, with each
// document's segmentations ordered by coder ID. Documents are processed in
// parallel, at most workers at a time (workers <= 0 means no limit).
//
// A document whose coefficient is undefined gets a NaN Result and does not
// stop the others; those failures are joined into the returned error, which
// then matches ErrDegenerate. Any other failure cancels the remaining work
// and is returned on its own.
func PerDocument(ctx context.Context, c segment.Corpus, f Func, workers int) (map[string]Result, error) {
	if _, err := c.Coders(); err != nil {
		return nil, err
	}

	ids := c.DocumentIDs()
	results := make([]Result, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := f(c[id].Ordered())
			results[i] = r
			if err == nil {
				return nil
			}
			err = fmt.Errorf("document %s: %w", id, err)
			if errors.Is(err, ErrDegenerate) {
				errs[i] = err
				return nil
			}
			return err // cancels the remaining documents
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]Result, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, errors.Join(errs...)
}

// Overall evaluates f once over the whole corpus, treating each coder's
// segmentations concatenated in document order as one long document.
func Overall(c segment.Corpus, f Func) (Result, error) {
	segs, err := segment.Overall(c)
	if err != nil {
		return undefined(), err
	}
	return f(segs)
}
