package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/agbru/lfsrscan/internal/explorer"
	"github.com/agbru/lfsrscan/internal/ui"
	"github.com/agbru/lfsrscan/pkg/models"
)

// FormatStates renders a trajectory as a bracketed, comma-separated list of
// single-quoted states, e.g. ['001', '100', '010'].
func FormatStates(states []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range states {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(s)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}

// FormatReport renders the plain-text report:
//
//	<N> loops:
//
//	Seed: <seed>
//	States: [<states>]
//	Period: <period>
//
// with one Seed/States/Period block per cycle, each followed by a blank line.
// The text is never coloured.
func FormatReport(r models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d loops:\n\n", r.Loops)
	for _, c := range r.Cycles {
		fmt.Fprintf(&b, "Seed: %s\nStates: %s\nPeriod: %d\n\n", c.Seed, FormatStates(c.States), c.Period)
	}
	return b.String()
}

// DisplayReport writes the plain-text report to out.
func DisplayReport(out io.Writer, r models.Report) error {
	_, err := io.WriteString(out, FormatReport(r))
	return err
}

// DisplayJSONReport writes r to out as indented JSON.
func DisplayJSONReport(out io.Writer, r models.Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// DisplayDetails prints an exploration summary after the report.
//
// Parameters:
//   - out: The output writer.
//   - r: The report being summarised.
//   - duration: Wall-clock exploration time.
//   - workers: Number of goroutines that walked seeds.
func DisplayDetails(out io.Writer, r models.Report, duration time.Duration, workers int) {
	longest := explorer.LongestPeriod(r)
	seeds := uint64(1) << uint(r.NumBits)
	maximal := r.NumBits > 0 && uint64(longest) == seeds-1

	durationStr := FormatExecutionDuration(duration)
	if duration == 0 {
		durationStr = "< 1µs"
	}

	fmt.Fprintf(out, "%s--- Exploration details ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Polynomial      : %s%s%s\n", ui.ColorMagenta(), r.Polynomial, ui.ColorReset())
	fmt.Fprintf(out, "Register width  : %s%d%s bits\n", ui.ColorCyan(), r.NumBits, ui.ColorReset())
	fmt.Fprintf(out, "Seeds scanned   : %s%d%s\n", ui.ColorCyan(), seeds, ui.ColorReset())
	fmt.Fprintf(out, "Distinct loops  : %s%d%s\n", ui.ColorCyan(), r.Loops, ui.ColorReset())
	fmt.Fprintf(out, "Longest period  : %s%d%s\n", ui.ColorCyan(), longest, ui.ColorReset())
	if maximal {
		fmt.Fprintf(out, "Maximal length  : %syes%s\n", ui.ColorGreen(), ui.ColorReset())
	} else {
		fmt.Fprintf(out, "Maximal length  : %sno%s\n", ui.ColorYellow(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Workers         : %d (%d logical processors, Go %s)\n", workers, runtime.NumCPU(), runtime.Version())
	fmt.Fprintf(out, "Exploration time: %s%s%s\n", ui.ColorGreen(), durationStr, ui.ColorReset())
}

// PrintUsage writes the one-line usage message.
func PrintUsage(out io.Writer, programName string) {
	fmt.Fprintf(out, "Usage: %s <polynomial>\n", programName)
}

// WriteReportToFile writes the report to path, creating parent directories.
// The file receives JSON when asJSON is set and the plain-text report
// otherwise, so it always matches what was printed.
func WriteReportToFile(path string, r models.Report, asJSON bool) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if asJSON {
		err = DisplayJSONReport(file, r)
	} else {
		err = DisplayReport(file, r)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
