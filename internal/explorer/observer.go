// Package explorer walks every seed of a shift register, records the
// trajectory each one follows until a state repeats, and keeps one
// representative per distinct cycle. This file holds the progress observers.
package explorer

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ProgressUpdate is a progress notification sent over a channel.
type ProgressUpdate struct {
	// Value is the fraction of seeds processed, from 0.0 to 1.0.
	Value float64
}

// ProgressObserver receives progress notifications while an exploration runs.
// Implementations must be safe for concurrent use when the explorer runs
// with more than one worker.
type ProgressObserver interface {
	Update(progress float64)
}

// ─────────────────────────────────────────────────────────────────────────────
// Progress Subject
// ─────────────────────────────────────────────────────────────────────────────

// ProgressSubject fans a notification out to every registered observer, in
// registration order. It is safe for concurrent use.
type ProgressSubject struct {
	observers []ProgressObserver
	mu        sync.RWMutex
}

// NewProgressSubject creates an empty subject.
func NewProgressSubject(observers ...ProgressObserver) *ProgressSubject {
	s := &ProgressSubject{}
	for _, o := range observers {
		s.Register(o)
	}
	return s
}

// Register adds an observer. Nil observers are ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer; unknown observers are ignored.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Update implements ProgressObserver by notifying every registered observer.
func (s *ProgressSubject) Update(progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver forwards progress to a channel consumed by the CLI display.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver creates an observer that sends updates to ch.
// A nil channel discards updates.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update sends intermediate values without blocking; when the channel is
// full the update is dropped and the display catches up on the next one.
// The completion update (1.0) is always delivered, so the consumer must keep
// reading until the channel is closed.
func (o *ChannelObserver) Update(progress float64) {
	if o.channel == nil {
		return
	}
	if progress >= 1.0 {
		o.channel <- ProgressUpdate{Value: 1.0}
		return
	}
	select {
	case o.channel <- ProgressUpdate{Value: progress}:
	default:
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs progress at debug level, throttled so that only
// changes of at least threshold are written.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64
	last      float64
	mu        sync.Mutex
}

// NewLoggingObserver creates a throttled logging observer. A non-positive
// threshold defaults to 0.1 (10%).
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{logger: logger, threshold: threshold}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if progress >= 1.0 || progress-o.last >= o.threshold {
		o.logger.Debug().
			Float64("progress", progress).
			Str("percent", fmt.Sprintf("%.1f%%", progress*100)).
			Msg("exploration progress")
		o.last = progress
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

// MetricsObserver exports the current progress to a Prometheus gauge.
type MetricsObserver struct{}

// NewMetricsObserver creates an observer backed by the progress gauge.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// Update implements ProgressObserver.
func (o *MetricsObserver) Update(progress float64) {
	progressGauge.Set(progress)
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver discards every update.
type NoOpObserver struct{}

// Update implements ProgressObserver.
func (NoOpObserver) Update(float64) {}
