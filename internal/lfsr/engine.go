package lfsr

import (
	apperrors "github.com/agbru/lfsrscan/internal/errors"
)

// Engine simulates one shift register. It owns its state exclusively: the
// seed handed to New is copied, and State returns a copy, so no caller can
// observe or corrupt the live register.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	numBits    int
	polynomial Bits
	state      Bits
}

// New builds an Engine of numBits bits with the given feedback polynomial and
// initial state.
//
// Parameters:
//   - numBits: The register width; must be strictly positive.
//   - polynomial: The tap configuration, numBits digits, most-significant first.
//   - seed: The initial state, numBits digits, most-significant first.
//
// Returns:
//   - *Engine: The initialised register.
//   - error: A ConfigError (matching apperrors.ErrInvalidConfiguration) when
//     numBits is not positive, a length differs from numBits, or a digit is
//     outside {0,1}.
func New(numBits int, polynomial, seed []uint8) (*Engine, error) {
	if numBits <= 0 {
		return nil, apperrors.NewConfigError("num_bits must be a positive integer, got %d", numBits)
	}
	if len(seed) != numBits {
		return nil, apperrors.NewConfigError("seed size must match num_bits: got %d, want %d", len(seed), numBits)
	}
	if len(polynomial) != numBits {
		return nil, apperrors.NewConfigError("polynomial size must match num_bits: got %d, want %d", len(polynomial), numBits)
	}
	if !Bits(polynomial).Valid() {
		return nil, apperrors.NewConfigError("polynomial must contain only 0 and 1: %v", polynomial)
	}
	if !Bits(seed).Valid() {
		return nil, apperrors.NewConfigError("seed must contain only 0 and 1: %v", seed)
	}

	return &Engine{
		numBits:    numBits,
		polynomial: Bits(polynomial).Clone(),
		state:      Bits(seed).Clone(),
	}, nil
}

// NewFromStrings is New for textual polynomial and seed values; the width is
// taken from the polynomial.
func NewFromStrings(polynomial, seed string) (*Engine, error) {
	p, err := ParseBits(polynomial)
	if err != nil {
		return nil, err
	}
	s, err := ParseBits(seed)
	if err != nil {
		return nil, err
	}
	return New(len(p), p, s)
}

// Next advances the register by one step and returns the bit shifted out.
//
// The feedback bit is the XOR of every state[i] whose tap
// polynomial[numBits-1-i] is set. The last state bit is removed and returned,
// the remaining bits move one position towards the end, and the feedback bit
// is inserted at the front. The register width never changes.
func (e *Engine) Next() uint8 {
	n := e.numBits
	var feedback uint8
	for i, v := range e.state {
		if e.polynomial[n-i-1] == 1 {
			feedback ^= v
		}
	}
	out := e.state[n-1]
	copy(e.state[1:], e.state[:n-1])
	e.state[0] = feedback
	return out
}

// State returns a copy of the current register contents.
func (e *Engine) State() Bits {
	return e.state.Clone()
}

// String renders the current register contents, e.g. "0110".
func (e *Engine) String() string {
	return e.state.String()
}

// NumBits returns the register width.
func (e *Engine) NumBits() int { return e.numBits }

// Polynomial returns a copy of the tap configuration.
func (e *Engine) Polynomial() Bits {
	return e.polynomial.Clone()
}
