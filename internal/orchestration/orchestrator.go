// Package orchestration runs one exploration end to end: it builds the
// explorer from the configuration, wires the progress observers, drives the
// terminal progress display and collects the outcome.
package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/lfsrscan/internal/cli"
	"github.com/agbru/lfsrscan/internal/config"
	"github.com/agbru/lfsrscan/internal/explorer"
)

// ProgressBufferSize is the capacity of the progress channel. Updates that
// do not fit are dropped by the channel observer rather than blocking a
// worker.
const ProgressBufferSize = 16

// CycleExplorer is the part of explorer.Explorer the orchestrator drives.
type CycleExplorer interface {
	Explore(ctx context.Context) ([]explorer.Cycle, error)
}

// ExplorationResult is the outcome of one exploration.
type ExplorationResult struct {
	// Polynomial is the explored feedback polynomial.
	Polynomial string
	// Cycles holds the discovered cycles; nil when Err is set.
	Cycles []explorer.Cycle
	// Duration is the wall-clock time spent exploring.
	Duration time.Duration
	// Err is the error that aborted the exploration, if any.
	Err error
}

// ExecuteExploration explores cfg.Polynomial with cfg.Workers goroutines.
//
// Progress is fanned out to a throttled debug log, the Prometheus progress
// gauge and, unless progressOut is nil, a spinner drawn on progressOut.
//
// Parameters:
//   - ctx: Carries the timeout and signal cancellation.
//   - cfg: The application configuration.
//   - logger: Destination of diagnostic logs.
//   - progressOut: Where the progress display is drawn; nil disables it.
//
// Returns:
//   - ExplorationResult: The cycles or the error, with the elapsed time.
func ExecuteExploration(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger, progressOut io.Writer) ExplorationResult {
	subject := explorer.NewProgressSubject(
		explorer.NewLoggingObserver(logger, 0.1),
		explorer.NewMetricsObserver(),
	)

	var progressChan chan explorer.ProgressUpdate
	if progressOut != nil {
		progressChan = make(chan explorer.ProgressUpdate, ProgressBufferSize)
		subject.Register(explorer.NewChannelObserver(progressChan))
	}

	x, err := explorer.New(cfg.Polynomial,
		explorer.WithWorkers(cfg.Workers),
		explorer.WithObserver(subject),
		explorer.WithLogger(logger),
	)
	if err != nil {
		if progressChan != nil {
			close(progressChan)
		}
		return ExplorationResult{Polynomial: cfg.Polynomial, Err: err}
	}

	res := Run(ctx, x, progressChan, progressOut)
	res.Polynomial = cfg.Polynomial
	return res
}

// Run executes x while a progress display consumes progressChan, then closes
// the channel and waits for the display to finish. A nil channel runs x
// without a display.
func Run(ctx context.Context, x CycleExplorer, progressChan chan explorer.ProgressUpdate, out io.Writer) ExplorationResult {
	var displayWg sync.WaitGroup
	if progressChan != nil {
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progressChan, out)
	}

	var res ExplorationResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		cycles, err := x.Explore(gctx)
		res = ExplorationResult{Cycles: cycles, Duration: time.Since(start), Err: err}
		return nil
	})
	_ = g.Wait()

	if progressChan != nil {
		close(progressChan)
		displayWg.Wait()
	}
	return res
}
