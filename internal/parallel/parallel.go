// Package parallel provides bounded fan-out helpers for independent derivative checks.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 2, // Each item is a full derivative check.
	}
}

// ForChunks splits [0, n) into contiguous chunks and calls f(ctx, start, end)
// once per chunk, each chunk on its own goroutine.
//
// A chunk is the unit of ownership: state created inside f (a workspace, an
// adapter) is used by exactly one goroutine. The first error cancels the
// context passed to the remaining chunks and is returned.
// Falls back to a single sequential chunk if parallelism is disabled or n is too small.
func ForChunks(ctx context.Context, n int, cfg Config, f func(ctx context.Context, start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		return f(ctx, 0, n)
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunkSize {
		start := start
		end := min(start+chunkSize, n)
		g.Go(func() error {
			return f(gctx, start, end)
		})
	}
	return g.Wait()
}

// For executes f(ctx, i) for i in [0, n), stopping at the first error or
// when ctx is canceled.
func For(ctx context.Context, n int, cfg Config, f func(ctx context.Context, i int) error) error {
	return ForChunks(ctx, n, cfg, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})
}
