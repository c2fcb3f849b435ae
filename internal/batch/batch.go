// Package batch processes many documents concurrently with a bounded worker
// pool. Per-file failures become placeholder results so one bad scan never
// sinks the run.
package batch

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docgrid/doc-parser/internal/pipeline"
)

type Runner struct {
	processor *pipeline.Processor
	workers   int
	logger    *slog.Logger
}

// NewRunner builds a batch runner. workers <= 0 defaults to GOMAXPROCS.
func NewRunner(processor *pipeline.Processor, workers int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{processor: processor, workers: workers, logger: logger}
}

// Process runs every path through the pipeline, at most `workers` files in
// flight. Results keep the order of paths. Cancelling ctx stops scheduling
// new files; already-running ones finish.
func (r *Runner) Process(ctx context.Context, paths []string) []pipeline.StructuredOutput {
	start := time.Now()
	results := make([]pipeline.StructuredOutput, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var failed atomic.Int32
	for i, path := range paths {
		i, path := i, path
		if gctx.Err() != nil {
			results[i] = pipeline.ErrorResult(path, gctx.Err())
			failed.Add(1)
			continue
		}
		g.Go(func() error {
			out, err := r.processor.ProcessFile(gctx, path)
			if err != nil {
				r.logger.Warn("file processing failed", "path", path, "error", err)
				out = pipeline.ErrorResult(path, err)
				failed.Add(1)
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Info("batch done",
		"files", len(paths),
		"failed", failed.Load(),
		"workers", r.workers,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results
}
