package explorer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registered once globally to avoid duplicate registration errors.
var (
	seedsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lfsrscan_seeds_scanned_total",
		Help: "Total number of seeds whose trajectory has been walked",
	})
	cyclesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lfsrscan_cycles_discovered_total",
		Help: "Total number of distinct cycles reported across explorations",
	})
	explorationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lfsrscan_exploration_duration_seconds",
		Help:    "Wall-clock duration of complete explorations, by register width",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
	}, []string{"bits"})
	progressGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lfsrscan_exploration_progress",
		Help: "Progress of the most recently updated exploration (0.0 to 1.0)",
	})
)
