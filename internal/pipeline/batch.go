package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent generation for multiple sites.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-site execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each site.
	// We use a factory to ensure each build gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent builds.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed builds.
	// Access is synchronized via mutex.
	results []*Build
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent builds.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each site to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// builds and allows for per-site customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*Build, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch generates dialogue trees for multiple sites concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each site gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all builds collected, even for sites that failed.
// The error return indicates if the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, startURLs []string) ([]*Build, error) {
	bp.logger.Info("starting batch processing",
		"total_sites", len(startURLs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*Build, len(startURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, startURL := range startURLs {
		i, startURL := i, startURL
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("building site",
				"site", startURL,
				"index", i+1,
				"total", len(startURLs),
			)

			build := NewBuild(startURL)
			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, build)

			// Store result regardless of error
			// The build carries error information if the run failed
			bp.mu.Lock()
			bp.results[i] = build
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("build failed",
					"site", startURL,
					"error", err,
				)
				// Don't return error to errgroup - we want to continue other sites
				// The error is recorded in the build
				return nil
			}

			bp.logger.Info("build completed",
				"site", startURL,
			)

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch processing complete",
		"total_sites", len(startURLs),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback generates trees for multiple sites and calls a
// callback for each completed build. This is useful for streaming results.
//
// The callback receives the build and the index of the site in the
// original slice. The callback is called from the goroutine that completed
// the build, so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	startURLs []string,
	callback func(build *Build, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_sites", len(startURLs),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, startURL := range startURLs {
		i, startURL := i, startURL
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			build := NewBuild(startURL)
			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, build) //nolint:errcheck // Error is stored in the build

			callback(build, i)

			return nil
		})
	}

	return g.Wait()
}
