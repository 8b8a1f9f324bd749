package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// fileJobs is how many files convert at once. Each one already spreads its
// blocks over every core.
const fileJobs = 4

// runJobs converts every job with convert and removes inputs afterwards when
// remove is set. The first failure cancels the remaining jobs.
func runJobs(ctx context.Context, jobs []job, remove bool, convert func(ctx context.Context, j job) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileJobs)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := convert(gctx, j); err != nil {
				return err
			}
			if remove {
				if err := os.Remove(j.In); err != nil {
					return fmt.Errorf("remove %q: %w", j.In, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
