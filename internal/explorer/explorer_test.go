package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sync"
	"testing"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/internal/lfsr"
	"github.com/agbru/lfsrscan/internal/testutil"
	"github.com/agbru/lfsrscan/pkg/models"
)

func explore(t *testing.T, polynomial string, opts ...Option) []Cycle {
	t.Helper()
	x, err := New(polynomial, opts...)
	if err != nil {
		t.Fatalf("New(%q): %v", polynomial, err)
	}
	cycles, err := x.Explore(context.Background())
	if err != nil {
		t.Fatalf("Explore(%q): %v", polynomial, err)
	}
	return cycles
}

// allPolynomials returns every polynomial string of width 1..maxBits.
func allPolynomials(maxBits int) []string {
	var out []string
	for n := 1; n <= maxBits; n++ {
		out = append(out, testutil.AllStates(n)...)
	}
	return out
}

func trajectories(cycles []Cycle) [][]string {
	out := make([][]string, len(cycles))
	for i, c := range cycles {
		out[i] = c.States
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		polynomial string
		wantErr    bool
	}{
		{"valid", "1001", false},
		{"empty is valid", "", false},
		{"widest accepted", fmt.Sprintf("%024b", 1), false},
		{"invalid digit", "10a1", true},
		{"too wide", fmt.Sprintf("%025b", 1), true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x, err := New(tt.polynomial)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidConfiguration) {
					t.Errorf("New(%q) error = %v, want configuration error", tt.polynomial, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) unexpected error: %v", tt.polynomial, err)
			}
			if x.NumBits() != len(tt.polynomial) || x.Polynomial() != tt.polynomial {
				t.Errorf("explorer reports width %d polynomial %q", x.NumBits(), x.Polynomial())
			}
		})
	}
}

func TestExplore_FixedPointScenario(t *testing.T) {
	t.Parallel()
	cycles := explore(t, "100")
	if len(cycles) == 0 {
		t.Fatal("no cycles discovered")
	}
	first := cycles[0]
	if first.Seed != "000" || !slices.Equal(first.States, []string{"000"}) || first.Period() != 1 {
		t.Errorf("first cycle = %+v, want seed 000 with fixed point [000]", first)
	}
}

func TestExplore_NonInvertibleScenario(t *testing.T) {
	t.Parallel()
	cycles := explore(t, "011")

	if cycles[0].Seed != "000" || cycles[0].Period() != 1 {
		t.Errorf("first cycle = %+v, want the 000 fixed point", cycles[0])
	}
	if missing := testutil.MissingStates(3, trajectories(cycles)); len(missing) != 0 {
		t.Errorf("states not covered by any trajectory: %v", missing)
	}
	want := []string{"000", "001", "010", "011", "100", "111"}
	var seeds []string
	for _, c := range cycles {
		seeds = append(seeds, c.Seed)
	}
	if !slices.Equal(seeds, want) {
		t.Errorf("discovered seeds = %v, want %v", seeds, want)
	}
}

func TestExplore_MaximalLengthScenario(t *testing.T) {
	t.Parallel()
	for _, poly := range []string{"1001", "1100"} {
		poly := poly
		t.Run(poly, func(t *testing.T) {
			t.Parallel()
			cycles := explore(t, poly)
			if len(cycles) != 2 {
				t.Fatalf("got %d loops, want 2", len(cycles))
			}
			if cycles[0].Seed != "0000" || cycles[0].Period() != 1 {
				t.Errorf("first loop = %+v, want 0000 fixed point", cycles[0])
			}
			if cycles[1].Seed != "0001" || cycles[1].Period() != 15 {
				t.Errorf("second loop seed %s period %d, want 0001 period 15", cycles[1].Seed, cycles[1].Period())
			}
			if slices.Contains(cycles[1].States, "0000") {
				t.Error("the maximal cycle must not contain the zero state")
			}
		})
	}
}

func TestExplore_ZeroWidth(t *testing.T) {
	t.Parallel()
	rec := &recordingObserver{}
	cycles := explore(t, "", WithObserver(rec))
	if len(cycles) != 1 || cycles[0].Seed != "" || !slices.Equal(cycles[0].States, []string{""}) {
		t.Errorf("zero-width exploration = %+v, want one cycle of the empty state", cycles)
	}
	if rec.last() != 1.0 {
		t.Errorf("observer last progress = %v, want 1.0", rec.last())
	}
}

func TestExplore_Golden(t *testing.T) {
	t.Parallel()
	raw, err := os.ReadFile(filepath.Join("testdata", "cycles_golden.json"))
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	var golden []models.Report
	if err := json.Unmarshal(raw, &golden); err != nil {
		t.Fatalf("decoding golden file: %v", err)
	}
	if len(golden) == 0 {
		t.Fatal("golden file is empty")
	}

	for _, want := range golden {
		want := want
		t.Run(want.Polynomial, func(t *testing.T) {
			t.Parallel()
			for _, workers := range []int{1, 4} {
				got := NewReport(want.Polynomial, explore(t, want.Polynomial, WithWorkers(workers)), 0)
				if !reflect.DeepEqual(got, want) {
					t.Errorf("workers=%d: report mismatch\n got: %+v\nwant: %+v", workers, got, want)
				}
			}
		})
	}
}

func TestExplore_Invariants(t *testing.T) {
	t.Parallel()
	for _, poly := range allPolynomials(6) {
		n := len(poly)
		cycles := explore(t, poly)

		signatures := make(map[string]bool)
		for _, c := range cycles {
			if c.Period() < 1 || c.Period() > 1<<n {
				t.Errorf("%s: seed %s period %d out of range", poly, c.Seed, c.Period())
			}
			if c.States[0] != c.Seed {
				t.Errorf("%s: trajectory for seed %s starts at %s", poly, c.Seed, c.States[0])
			}
			for _, s := range c.States {
				if len(s) != n {
					t.Errorf("%s: state %q has %d characters, want %d", poly, s, len(s), n)
				}
			}
			sig := c.Signature()
			if signatures[sig] {
				t.Errorf("%s: duplicate signature for seed %s", poly, c.Seed)
			}
			signatures[sig] = true
		}
		if missing := testutil.MissingStates(n, trajectories(cycles)); len(missing) != 0 {
			t.Errorf("%s: uncovered states %v", poly, missing)
		}
		for i := 1; i < len(cycles); i++ {
			if cycles[i-1].Seed >= cycles[i].Seed {
				t.Errorf("%s: seeds not in ascending discovery order: %s then %s", poly, cycles[i-1].Seed, cycles[i].Seed)
			}
		}
	}
}

func TestExplore_Deterministic(t *testing.T) {
	t.Parallel()
	first := explore(t, "0110101")
	second := explore(t, "0110101")
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same polynomial produced different output")
	}
}

func TestExplore_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()
	for _, poly := range allPolynomials(7) {
		sequential := explore(t, poly)
		for _, workers := range []int{2, 3, 8, 64} {
			parallel := explore(t, poly, WithWorkers(workers))
			if !reflect.DeepEqual(sequential, parallel) {
				t.Fatalf("%s: workers=%d diverged from the sequential scan", poly, workers)
			}
		}
	}
}

func TestExplore_RotationsShareSignature(t *testing.T) {
	t.Parallel()
	// A polynomial whose first digit is 1 taps the last state bit, which makes
	// the step invertible: every trajectory is then a pure cycle.
	for _, poly := range []string{"1001", "1100", "100", "1011", "10100"} {
		for _, c := range explore(t, poly) {
			for _, start := range c.States {
				e, err := lfsr.NewFromStrings(poly, start)
				if err != nil {
					t.Fatalf("NewFromStrings: %v", err)
				}
				rotated := Trajectory(e, 1<<len(poly))
				if Signature(rotated) != c.Signature() {
					t.Errorf("%s: starting at %s gave a different signature than seed %s", poly, start, c.Seed)
				}
			}
		}
	}
}

func TestExplore_Cancellation(t *testing.T) {
	t.Parallel()
	for _, workers := range []int{1, 4} {
		workers := workers
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			t.Parallel()
			x, err := New("10010001", WithWorkers(workers))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			cycles, err := x.Explore(ctx)
			if err == nil {
				t.Fatal("expected an error from a canceled context")
			}
			if cycles != nil {
				t.Error("no cycles should be returned on cancellation")
			}
			if !errors.Is(err, context.Canceled) || !apperrors.IsContextError(err) {
				t.Errorf("error %v should wrap context.Canceled", err)
			}
			var expErr apperrors.ExplorationError
			if !errors.As(err, &expErr) || expErr.Polynomial != "10010001" {
				t.Errorf("error %v should be an ExplorationError for the polynomial", err)
			}
		})
	}
}

func TestTrajectory(t *testing.T) {
	t.Parallel()

	t.Run("stops before the repeated state", func(t *testing.T) {
		t.Parallel()
		e, _ := lfsr.NewFromStrings("100", "001")
		got := Trajectory(e, 8)
		if !slices.Equal(got, []string{"001", "100", "010"}) {
			t.Errorf("Trajectory = %v", got)
		}
	})

	t.Run("keeps the tail before the cycle", func(t *testing.T) {
		t.Parallel()
		e, _ := lfsr.NewFromStrings("011", "100")
		got := Trajectory(e, 8)
		if !slices.Equal(got, []string{"100", "110", "011", "101"}) {
			t.Errorf("Trajectory = %v", got)
		}
	})

	t.Run("respects the step limit", func(t *testing.T) {
		t.Parallel()
		e, _ := lfsr.NewFromStrings("1001", "0001")
		if got := Trajectory(e, 3); len(got) != 4 {
			t.Errorf("Trajectory with limit 3 has %d states, want 4", len(got))
		}
	})
}

func TestSignature(t *testing.T) {
	t.Parallel()
	states := []string{"110", "011", "101"}
	if got := Signature(states); got != "011|101|110" {
		t.Errorf("Signature = %q", got)
	}
	if !slices.Equal(states, []string{"110", "011", "101"}) {
		t.Error("Signature must not reorder its input")
	}
	if Signature([]string{"101", "110", "011"}) != Signature(states) {
		t.Error("rotations must share a signature")
	}
}

func TestMergeDiscoveries(t *testing.T) {
	t.Parallel()
	chunks := [][]Cycle{
		{{Seed: "00", States: []string{"00"}}, {Seed: "01", States: []string{"01", "10"}}},
		nil,
		{{Seed: "10", States: []string{"10", "01"}}, {Seed: "11", States: []string{"11"}}},
	}
	got := mergeDiscoveries(chunks)
	var seeds []string
	for _, c := range got {
		seeds = append(seeds, c.Seed)
	}
	if !slices.Equal(seeds, []string{"00", "01", "11"}) {
		t.Errorf("merged seeds = %v, want [00 01 11]", seeds)
	}
}

func TestNewReport(t *testing.T) {
	t.Parallel()
	cycles := explore(t, "110")
	r := NewReport("110", cycles, 0)
	if r.Loops != 2 || r.NumBits != 3 || r.Duration != "" {
		t.Errorf("unexpected report header %+v", r)
	}
	if r.Cycles[1].Period != 7 || r.Cycles[1].Seed != "001" {
		t.Errorf("unexpected second cycle %+v", r.Cycles[1])
	}
	if LongestPeriod(r) != 7 {
		t.Errorf("LongestPeriod = %d, want 7", LongestPeriod(r))
	}
	if LongestPeriod(models.Report{}) != 0 {
		t.Error("LongestPeriod of an empty report should be 0")
	}
}

// recordingObserver stores every progress value it receives.
type recordingObserver struct {
	mu     sync.Mutex
	values []float64
}

func (r *recordingObserver) Update(progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, progress)
}

func (r *recordingObserver) last() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return -1
	}
	return r.values[len(r.values)-1]
}

func TestExplore_ReportsProgress(t *testing.T) {
	t.Parallel()
	for _, workers := range []int{1, 4} {
		rec := &recordingObserver{}
		explore(t, "10100011", WithWorkers(workers), WithObserver(rec))

		rec.mu.Lock()
		n := len(rec.values)
		maxSeen := 0.0
		for _, v := range rec.values {
			maxSeen = max(maxSeen, v)
		}
		rec.mu.Unlock()

		if n < 2 {
			t.Errorf("workers=%d: expected several progress updates, got %d", workers, n)
		}
		if maxSeen != 1.0 {
			t.Errorf("workers=%d: progress never reached 1.0 (max %v)", workers, maxSeen)
		}
	}
}
