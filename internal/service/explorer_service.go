// Package service exposes cycle exploration to the HTTP API: it enforces the
// server's width limit, caches finished reports and collapses concurrent
// requests for the same polynomial into one exploration.
package service

//go:generate mockgen -source=explorer_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/internal/explorer"
	"github.com/agbru/lfsrscan/internal/lfsr"
	"github.com/agbru/lfsrscan/pkg/models"
)

// ErrTooWide is returned for polynomials wider than the service limit.
var ErrTooWide = errors.New("polynomial exceeds the maximum width")

// DefaultExplorationTimeout bounds an exploration shared by several callers.
const DefaultExplorationTimeout = time.Minute

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lfsrscan_service_cache_hits_total",
		Help: "Explore requests answered from the report cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lfsrscan_service_cache_misses_total",
		Help: "Explore requests that ran an exploration",
	})
)

// Service explores polynomials on behalf of the HTTP API.
type Service interface {
	// Explore returns the report for polynomial.
	//
	// Returns:
	//   - models.Report: The report. Callers must not modify its slices.
	//   - error: An apperrors.ValidationError for malformed input or
	//     polynomials above the limit (wrapping the configuration error or
	//     ErrTooWide), or the exploration error.
	Explore(ctx context.Context, polynomial string) (models.Report, error)
}

// ExplorerService is the Service backed by explorer.Explorer.
type ExplorerService struct {
	maxBits int
	workers int
	timeout time.Duration
	cache   *lru.Cache[string, models.Report]
	group   singleflight.Group
	logger  zerolog.Logger

	// run performs one uncached exploration; replaced in tests.
	run func(ctx context.Context, polynomial string) (models.Report, error)
}

// Option configures an ExplorerService.
type Option func(*ExplorerService)

// WithExplorationTimeout bounds each shared exploration. Non-positive values
// keep DefaultExplorationTimeout.
func WithExplorationTimeout(d time.Duration) Option {
	return func(s *ExplorerService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

var _ Service = (*ExplorerService)(nil)

// NewExplorerService creates a service.
//
// Parameters:
//   - maxBits: Widest polynomial accepted.
//   - workers: Goroutines per exploration.
//   - cacheSize: Number of reports kept; must be positive.
//   - logger: Destination of debug diagnostics.
//   - opts: Functional options.
func NewExplorerService(maxBits, workers, cacheSize int, logger zerolog.Logger, opts ...Option) (*ExplorerService, error) {
	cache, err := lru.New[string, models.Report](cacheSize)
	if err != nil {
		return nil, apperrors.WrapError(err, "creating report cache")
	}
	s := &ExplorerService{
		maxBits: maxBits,
		workers: max(workers, 1),
		timeout: DefaultExplorationTimeout,
		cache:   cache,
		logger:  logger,
	}
	s.run = s.explore
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Explore validates polynomial, then serves the report from the cache or
// runs one exploration shared by every concurrent caller asking for the
// same polynomial. The shared exploration keeps the first caller's values
// but not its cancellation, and is bounded by the service timeout; each
// caller stops waiting when its own context ends.
func (s *ExplorerService) Explore(ctx context.Context, polynomial string) (models.Report, error) {
	if _, err := lfsr.ParseBits(polynomial); err != nil {
		return models.Report{}, apperrors.ValidationError{Field: "polynomial", Message: err.Error(), Value: polynomial, Cause: err}
	}
	if len(polynomial) > s.maxBits {
		err := fmt.Errorf("%w: %d bits requested, limit is %d", ErrTooWide, len(polynomial), s.maxBits)
		return models.Report{}, apperrors.ValidationError{Field: "polynomial", Message: err.Error(), Value: polynomial, Cause: err}
	}

	if r, ok := s.cache.Get(polynomial); ok {
		cacheHits.Inc()
		return r, nil
	}
	cacheMisses.Inc()

	ch := s.group.DoChan(polynomial, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.run(shared, polynomial)
	})
	select {
	case <-ctx.Done():
		return models.Report{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Report{}, res.Err
		}
		return res.Val.(models.Report), nil
	}
}

func (s *ExplorerService) explore(ctx context.Context, polynomial string) (models.Report, error) {
	x, err := explorer.New(polynomial, explorer.WithWorkers(s.workers), explorer.WithLogger(s.logger))
	if err != nil {
		return models.Report{}, err
	}
	start := time.Now()
	cycles, err := x.Explore(ctx)
	if err != nil {
		return models.Report{}, err
	}
	r := explorer.NewReport(polynomial, cycles, time.Since(start))
	s.cache.Add(polynomial, r)
	return r, nil
}

// CacheLen returns the number of cached reports.
func (s *ExplorerService) CacheLen() int { return s.cache.Len() }
