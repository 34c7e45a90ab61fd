// Package cli renders exploration results and progress for the terminal.
// Reports go to stdout in a fixed format; progress is drawn on a separate
// writer (stderr) so that redirecting stdout captures the report alone.
package cli

//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/lfsrscan/internal/explorer"
	"github.com/agbru/lfsrscan/internal/ui"
)

const (
	// ProgressRefreshRate is how often the spinner line is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// FormatExecutionDuration formats a duration with a unit suited to its size:
// microseconds below a millisecond, milliseconds below a second.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// CLIColorProvider supplies theme colours to apperrors.HandleExplorationError.
type CLIColorProvider struct{}

func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// Spinner abstracts the terminal spinner so DisplayProgress can be tested.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

// UpdateSuffix takes the spinner's lock: the animation goroutine reads
// Suffix concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// progressBar renders progress (clamped to [0, 1]) as a bar of length cells.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0.0), 1.0)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress draws a spinner with a progress bar and ETA until
// progressChan is closed, then prints a final 100% line if the exploration
// reported completion. A canceled or failed run leaves no final line. It is meant to run
// in its own goroutine and calls wg.Done when finished.
//
// Parameters:
//   - wg: Signalled when the display routine returns.
//   - progressChan: Progress updates from the explorer.
//   - out: Destination of the spinner (stderr in the CLI).
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan explorer.ProgressUpdate, out io.Writer) {
	defer wg.Done()

	state := NewProgressWithETA()
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				spinnerStopped = true
				if state.Progress() >= 1.0 {
					fmt.Fprintf(out, "Progress: %s\n", FormatProgressBarWithETA(1.0, time.Nanosecond, ProgressBarWidth))
				}
				return
			}
			state.UpdateWithETA(update.Value)
		case <-ticker.C:
			s.UpdateSuffix(" Progress: " + FormatProgressBarWithETA(state.Progress(), state.GetETA(), ProgressBarWidth))
		}
	}
}
