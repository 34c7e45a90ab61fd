package explorer

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/internal/lfsr"
)

const (
	// MaxBits is the widest register the explorer accepts. The search is
	// quadratic in the state-space size, so wider registers are impractical.
	MaxBits = 24

	// chunksPerWorker controls how finely the seed range is split when
	// exploring in parallel; more chunks balance uneven trajectory lengths.
	chunksPerWorker = 4

	// progressSteps is the number of progress notifications per exploration.
	progressSteps = 100
)

var tracer = otel.Tracer("github.com/agbru/lfsrscan/internal/explorer")

// Explorer enumerates the cycles of one feedback polynomial.
// It holds no mutable state, so Explore may be called repeatedly and from
// several goroutines.
type Explorer struct {
	polynomial lfsr.Bits
	numBits    int
	workers    int
	observer   ProgressObserver
	logger     zerolog.Logger
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithWorkers sets the number of goroutines walking seeds. Values below 2
// select the sequential scan. The output does not depend on this setting.
func WithWorkers(n int) Option {
	return func(x *Explorer) {
		x.workers = n
	}
}

// WithObserver registers a progress observer. Nil is ignored.
func WithObserver(o ProgressObserver) Option {
	return func(x *Explorer) {
		if o != nil {
			x.observer = o
		}
	}
}

// WithLogger sets the zerolog logger used for debug diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(x *Explorer) {
		x.logger = l
	}
}

// New validates the polynomial and returns an Explorer for it.
//
// Parameters:
//   - polynomial: A string of '0'/'1' characters; its length is the register width.
//   - opts: Functional options.
//
// Returns:
//   - *Explorer: The configured explorer.
//   - error: A ConfigError if the polynomial contains other characters or is
//     wider than MaxBits.
func New(polynomial string, opts ...Option) (*Explorer, error) {
	bits, err := lfsr.ParseBits(polynomial)
	if err != nil {
		return nil, err
	}
	if len(bits) > MaxBits {
		return nil, apperrors.NewConfigError("polynomial is %d bits wide, the maximum is %d", len(bits), MaxBits)
	}

	x := &Explorer{
		polynomial: bits,
		numBits:    len(bits),
		workers:    1,
		observer:   NoOpObserver{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

// NumBits returns the register width.
func (x *Explorer) NumBits() int { return x.numBits }

// Polynomial returns the polynomial as a string.
func (x *Explorer) Polynomial() string { return x.polynomial.String() }

// SeedCount returns the number of seeds an exploration walks (2^NumBits).
func (x *Explorer) SeedCount() uint64 { return uint64(1) << uint(x.numBits) }

// Explore walks every seed from 0 to 2^n-1 in ascending order and returns
// one Cycle per distinct signature, in discovery order. The result is the
// same on every run and for every worker count.
//
// The empty polynomial describes a zero-width register whose single state is
// the empty string; it yields one cycle with seed "" and period 1.
//
// Cancellation is checked between seeds; the context error is returned
// wrapped in an ExplorationError.
func (x *Explorer) Explore(ctx context.Context) ([]Cycle, error) {
	ctx, span := tracer.Start(ctx, "explorer.Explore", trace.WithAttributes(
		attribute.String("lfsr.polynomial", x.Polynomial()),
		attribute.Int("lfsr.bits", x.numBits),
		attribute.Int("lfsr.workers", x.workers),
	))
	defer span.End()

	start := time.Now()
	var (
		cycles []Cycle
		err    error
	)
	switch {
	case x.numBits == 0:
		cycles = []Cycle{{Seed: "", States: []string{""}}}
		x.observer.Update(1.0)
	case x.workers <= 1:
		cycles, err = x.exploreSequential(ctx)
	default:
		cycles, err = x.exploreParallel(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		x.logger.Debug().Err(err).Str("polynomial", x.Polynomial()).Msg("exploration aborted")
		return nil, apperrors.ExplorationError{Polynomial: x.Polynomial(), Cause: err}
	}

	elapsed := time.Since(start)
	explorationDuration.WithLabelValues(strconv.Itoa(x.numBits)).Observe(elapsed.Seconds())
	cyclesDiscovered.Add(float64(len(cycles)))
	span.SetAttributes(attribute.Int("lfsr.loops", len(cycles)))

	x.logger.Debug().
		Str("polynomial", x.Polynomial()).
		Int("loops", len(cycles)).
		Dur("elapsed", elapsed).
		Msg("exploration complete")
	return cycles, nil
}

func (x *Explorer) exploreSequential(ctx context.Context) ([]Cycle, error) {
	total := x.SeedCount()
	tracker := newProgressTracker(total, x.observer)
	return x.scanRange(ctx, 0, total, tracker)
}

// exploreParallel splits the seed space into contiguous ascending chunks,
// scans them concurrently and merges the per-chunk discoveries in chunk
// order, which reproduces the sequential first-seed-wins result.
func (x *Explorer) exploreParallel(ctx context.Context) ([]Cycle, error) {
	total := x.SeedCount()
	chunks := uint64(x.workers * chunksPerWorker)
	if chunks > total {
		chunks = total
	}
	size := (total + chunks - 1) / chunks

	tracker := newProgressTracker(total, x.observer)
	results := make([][]Cycle, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)
	for c := uint64(0); c < chunks; c++ {
		c := c
		lo := c * size
		hi := min(lo+size, total)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			found, err := x.scanRange(gctx, lo, hi, tracker)
			if err != nil {
				return err
			}
			results[c] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mergeDiscoveries(results), nil
}

// scanRange walks seeds [lo, hi) in ascending order, keeping the first
// trajectory for every signature met within the range.
func (x *Explorer) scanRange(ctx context.Context, lo, hi uint64, tracker *progressTracker) ([]Cycle, error) {
	limit := 1 << uint(x.numBits)
	seen := make(map[string]struct{})
	var found []Cycle

	for seed := lo; seed < hi; seed++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seedBits := lfsr.FromUint(seed, x.numBits)
		seedStr := seedBits.String()
		engine, err := lfsr.New(x.numBits, x.polynomial, seedBits)
		if err != nil {
			return nil, err
		}

		states := Trajectory(engine, limit)
		sig := Signature(states)
		if _, dup := seen[sig]; !dup {
			seen[sig] = struct{}{}
			found = append(found, Cycle{Seed: seedStr, States: states})
			x.logger.Debug().Str("seed", seedStr).Int("period", len(states)).Msg("cycle discovered")
		}
		seedsScanned.Inc()
		tracker.advance()
	}
	return found, nil
}

// Trajectory records the engine's current state and then steps it up to
// limit times, stopping at the first state already recorded. The repeated
// state is not appended. The engine is advanced in place.
func Trajectory(engine *lfsr.Engine, limit int) []string {
	first := engine.String()
	states := []string{first}
	visited := map[string]struct{}{first: {}}
	for i := 0; i < limit; i++ {
		engine.Next()
		s := engine.String()
		if _, ok := visited[s]; ok {
			break
		}
		visited[s] = struct{}{}
		states = append(states, s)
	}
	return states
}

// progressTracker counts processed seeds across workers and notifies the
// observer roughly progressSteps times per exploration.
type progressTracker struct {
	done     atomic.Uint64
	total    uint64
	step     uint64
	observer ProgressObserver
}

func newProgressTracker(total uint64, observer ProgressObserver) *progressTracker {
	step := total / progressSteps
	if step == 0 {
		step = 1
	}
	return &progressTracker{total: total, step: step, observer: observer}
}

func (p *progressTracker) advance() {
	n := p.done.Add(1)
	if n%p.step == 0 || n == p.total {
		p.observer.Update(float64(n) / float64(p.total))
	}
}
