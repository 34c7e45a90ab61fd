package cli

import (
	"fmt"
	"time"
)

// ProgressWithETA tracks the fraction of seeds explored and estimates the
// time remaining from an exponentially smoothed progress rate.
type ProgressWithETA struct {
	progress     float64
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // progress per second, smoothed
	now          func() time.Time
}

// NewProgressWithETA starts a tracker at 0% progress.
func NewProgressWithETA() *ProgressWithETA {
	return newProgressWithClock(time.Now)
}

func newProgressWithClock(now func() time.Time) *ProgressWithETA {
	t := now()
	return &ProgressWithETA{startTime: t, lastUpdate: t, now: now}
}

// Progress returns the last recorded progress value.
func (p *ProgressWithETA) Progress() float64 { return p.progress }

// UpdateWithETA records a progress value and returns it with the current ETA.
// The ETA is 0 until enough time and progress have accumulated for a
// meaningful estimate.
func (p *ProgressWithETA) UpdateWithETA(value float64) (progress float64, eta time.Duration) {
	p.progress = min(max(value, 0.0), 1.0)
	progress = p.progress

	now := p.now()
	elapsed := now.Sub(p.startTime)
	if elapsed < 100*time.Millisecond || progress <= 0.001 {
		p.lastUpdate = now
		p.lastProgress = progress
		return progress, 0
	}

	if since := now.Sub(p.lastUpdate).Seconds(); since > 0.05 {
		if delta := progress - p.lastProgress; delta > 0 {
			instant := delta / since
			if p.progressRate > 0 {
				p.progressRate = 0.7*p.progressRate + 0.3*instant
			} else {
				p.progressRate = progress / elapsed.Seconds()
			}
		}
		p.lastUpdate = now
		p.lastProgress = progress
	}
	return progress, p.GetETA()
}

// GetETA estimates the time remaining, capped at 24 hours. It returns 0 when
// no rate is known yet or the exploration is complete.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 || p.progress >= 1.0 {
		return 0
	}
	eta := time.Duration((1.0 - p.progress) / p.progressRate * float64(time.Second))
	return min(eta, 24*time.Hour)
}

// FormatETA renders an ETA as "< 1s", "42s", "2m30s" or "1h15m".
// A non-positive ETA means no estimate is available yet.
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		minutes, seconds := int(eta.Minutes()), int(eta.Seconds())%60
		if seconds > 0 {
			return fmt.Sprintf("%dm%ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	hours, minutes := int(eta.Hours()), int(eta.Minutes())%60
	if minutes > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}

// FormatProgressBarWithETA renders "45.00% [████░░░░] ETA: 2m30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%6.2f%% [%s] ETA: %s", progress*100, progressBar(progress, width), FormatETA(eta))
}
