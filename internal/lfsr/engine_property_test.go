package lfsr

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// referenceStep advances a register held in an integer. Bit n-1-i of state
// holds state[i]; polynomial[n-1-i] sits at integer bit i of poly, so tap i
// is gated by bit i of poly.
func referenceStep(state, poly uint64, n int) (uint64, uint8) {
	var fb uint64
	for i := 0; i < n; i++ {
		stateBit := (state >> uint(n-1-i)) & 1
		tapBit := (poly >> uint(i)) & 1
		fb ^= stateBit & tapBit
	}
	out := uint8(state & 1)
	return (state >> 1) | (fb << uint(n-1)), out
}

func maskTo(v uint64, n int) uint64 {
	if n >= 64 {
		return v
	}
	return v & (1<<uint(n) - 1)
}

// TestEngine_MatchesIntegerModel_PropertyBased checks the engine against an
// independent integer model and verifies the register width never changes.
func TestEngine_MatchesIntegerModel_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("engine agrees with integer model and keeps its width", prop.ForAll(
		func(n int, polyRaw, seedRaw uint64, steps int) bool {
			poly := maskTo(polyRaw, n)
			state := maskTo(seedRaw, n)

			e, err := NewFromStrings(FormatSeed(poly, n), FormatSeed(state, n))
			if err != nil {
				t.Logf("NewFromStrings failed: %v", err)
				return false
			}
			for k := 0; k < steps; k++ {
				var want uint8
				state, want = referenceStep(state, poly, n)
				if got := e.Next(); got != want {
					return false
				}
				if len(e.State()) != n {
					return false
				}
				if e.String() != FormatSeed(state, n) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 16),
		gen.UInt64(),
		gen.UInt64(),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}

// FuzzEngineStep cross-checks single steps against the integer model.
func FuzzEngineStep(f *testing.F) {
	f.Add(uint64(0b1001), uint64(0b0001), uint8(4))
	f.Add(uint64(0b100), uint64(0b001), uint8(3))
	f.Add(uint64(0b011), uint64(0b111), uint8(3))
	f.Add(uint64(0), uint64(0), uint8(1))
	f.Add(uint64(0xB400), uint64(0xACE1), uint8(16))

	f.Fuzz(func(t *testing.T, polyRaw, seedRaw uint64, width uint8) {
		n := 1 + int(width%24)
		poly := maskTo(polyRaw, n)
		state := maskTo(seedRaw, n)

		e, err := NewFromStrings(FormatSeed(poly, n), FormatSeed(state, n))
		if err != nil {
			t.Fatalf("NewFromStrings failed for n=%d: %v", n, err)
		}
		next, wantOut := referenceStep(state, poly, n)
		if gotOut := e.Next(); gotOut != wantOut {
			t.Errorf("output bit = %d, want %d (poly=%b seed=%b n=%d)", gotOut, wantOut, poly, state, n)
		}
		if got, want := e.String(), FormatSeed(next, n); got != want {
			t.Errorf("state = %s, want %s", got, want)
		}
	})
}
