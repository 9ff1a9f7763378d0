package msw

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mswell/internal/deferlog"
)

// SolveAll solves independent wells concurrently. Each well keeps its own
// factorization handle and logger; the loggers are merged in well order into
// the returned logger, also when a well fails. The first error cancels the
// remaining solves.
func SolveAll(ctx context.Context, wells []*Well) ([]*Result, *deferlog.Logger, error) {
	results := make([]*Result, len(wells))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, w := range wells {
		g.Go(func() error {
			r, err := w.Solve(ctx)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	err := g.Wait()

	merged := deferlog.New()
	for _, w := range wells {
		merged.Merge(w.log)
	}
	if err != nil {
		return nil, merged, err
	}
	return results, merged, nil
}
