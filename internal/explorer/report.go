package explorer

import (
	"time"

	"github.com/agbru/lfsrscan/pkg/models"
)

// NewReport converts discovered cycles into the shared wire representation.
// A zero duration is omitted from the encoded report.
func NewReport(polynomial string, cycles []Cycle, duration time.Duration) models.Report {
	r := models.Report{
		Polynomial: polynomial,
		NumBits:    len(polynomial),
		Loops:      len(cycles),
		Cycles:     make([]models.Cycle, len(cycles)),
	}
	if duration > 0 {
		r.Duration = duration.String()
	}
	for i, c := range cycles {
		r.Cycles[i] = models.Cycle{Seed: c.Seed, States: c.States, Period: c.Period()}
	}
	return r
}

// LongestPeriod returns the largest period in r, or 0 for an empty report.
func LongestPeriod(r models.Report) int {
	longest := 0
	for _, c := range r.Cycles {
		longest = max(longest, c.Period)
	}
	return longest
}
