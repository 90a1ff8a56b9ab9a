package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// CheckAll validates several independent model roots concurrently.
// Each root builds its own graph and issue list, so parallelism is
// safe; results come back ordered by root path. The first hard error
// cancels the remaining roots.
func (e *Engine) CheckAll(ctx context.Context, roots []string, parallelism int) ([]*Result, error) {
	if parallelism <= 0 {
		parallelism = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	results := make([]*Result, len(roots))
	for i, root := range roots {
		g.Go(func() error {
			res, err := e.Check(ctx, root)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Root < results[j].Root })
	return results, nil
}
