package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/pkg/models"
)

func newTestService(t *testing.T, maxBits, cacheSize int) *ExplorerService {
	t.Helper()
	svc, err := NewExplorerService(maxBits, 2, cacheSize, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestNewExplorerService(t *testing.T) {
	t.Parallel()
	_, err := NewExplorerService(8, 1, 0, zerolog.Nop())
	require.Error(t, err, "a zero-sized cache should be rejected")
	assert.Contains(t, err.Error(), "creating report cache")

	svc := newTestService(t, 8, 4)
	assert.Equal(t, 2, svc.workers)
	assert.Equal(t, 8, svc.maxBits)
	assert.Zero(t, svc.CacheLen())

	single, err := NewExplorerService(8, 0, 4, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, single.workers, "worker count is clamped to 1")
	assert.Equal(t, DefaultExplorationTimeout, single.timeout)

	bounded, err := NewExplorerService(8, 1, 4, zerolog.Nop(), WithExplorationTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, bounded.timeout)
}

func TestExplore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		polynomial string
		wantLoops  int
		wantErr    error
	}{
		{"maximal", "1001", 2, nil},
		{"non-invertible", "011", 6, nil},
		{"zero width", "", 1, nil},
		{"bad digit", "10x", 0, apperrors.ErrInvalidConfiguration},
		{"too wide", strings.Repeat("1", 9), 0, ErrTooWide},
	}
	svc := newTestService(t, 8, 16)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := svc.Explore(context.Background(), tt.polynomial)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var invalid apperrors.ValidationError
				if assert.ErrorAs(t, err, &invalid) {
					assert.Equal(t, "polynomial", invalid.Field)
					assert.Equal(t, tt.polynomial, invalid.Value)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.polynomial, r.Polynomial)
			assert.Equal(t, tt.wantLoops, r.Loops)
			assert.Len(t, r.Cycles, tt.wantLoops)
			assert.NotEmpty(t, r.Duration, "service reports should carry a duration")
		})
	}
}

func TestExplore_Cache(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, 8, 2)
	ctx := context.Background()

	first, err := svc.Explore(ctx, "110")
	require.NoError(t, err)
	second, err := svc.Explore(ctx, "110")
	require.NoError(t, err)
	assert.Equal(t, first.Duration, second.Duration, "second request should be served from the cache")

	for _, p := range []string{"1001", "100"} {
		_, err := svc.Explore(ctx, p)
		require.NoError(t, err, p)
	}
	assert.Equal(t, 2, svc.CacheLen())
	_, ok := svc.cache.Peek("110")
	assert.False(t, ok, "least recently used report should have been evicted")
}

func TestExplore_FailuresAreNotCached(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, 12, 4)
	svc.run = func(ctx context.Context, polynomial string) (models.Report, error) {
		return models.Report{}, context.DeadlineExceeded
	}

	_, err := svc.Explore(context.Background(), "100000000001")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, svc.CacheLen(), "a failed exploration must not be cached")
}

func TestExplore_CanceledCallerReturnsImmediately(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, 12, 4)
	release := make(chan struct{})
	defer close(release)
	svc.run = func(ctx context.Context, polynomial string) (models.Report, error) {
		<-release
		return models.Report{}, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Explore(ctx, "100000000001")
	require.ErrorIs(t, err, context.Canceled)
}

func TestExplore_ConcurrentCallers(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, 10, 4)

	const callers = 8
	reports := make([]models.Report, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := svc.Explore(context.Background(), "1000000001")
			if assert.NoError(t, err) {
				reports[i] = r
			}
		}()
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Equal(t, reports[0].Loops, reports[i].Loops, "caller %d", i)
	}
	assert.Equal(t, 1, svc.CacheLen())
}

func TestExplore_SharedExplorationOutlivesFirstCaller(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, 8, 4)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls sync.Mutex
	runs := 0
	svc.run = func(ctx context.Context, polynomial string) (models.Report, error) {
		calls.Lock()
		runs++
		first := runs == 1
		calls.Unlock()
		if first {
			close(entered)
		}
		<-release
		if _, ok := ctx.Deadline(); !ok {
			t.Error("shared exploration should be bounded by the service timeout")
		}
		if err := ctx.Err(); err != nil {
			return models.Report{}, err
		}
		return svc.explore(ctx, polynomial)
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Explore(ctxA, "1001")
		errA <- err
	}()
	<-entered
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled, "the canceled caller stops waiting")

	type result struct {
		r   models.Report
		err error
	}
	resB := make(chan result, 1)
	go func() {
		r, err := svc.Explore(context.Background(), "1001")
		resB <- result{r, err}
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	b := <-resB
	require.NoError(t, b.err, "a live caller must not inherit another caller's cancellation")
	assert.Equal(t, 2, b.r.Loops)
	assert.Equal(t, 1, svc.CacheLen())
}
