// Package lfsr implements a Fibonacci-type linear feedback shift register
// over an arbitrary bit width, together with the bit-vector helpers used to
// move register contents in and out of their textual form.
package lfsr

import (
	"strings"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
)

// Bits is an ordered sequence of binary digits, most-significant first.
// Every element is either 0 or 1.
type Bits []uint8

// String renders the digits as a string of '0' and '1' characters.
func (b Bits) String() string {
	buf := make([]byte, len(b))
	for i, v := range b {
		buf[i] = '0' + v
	}
	return string(buf)
}

// Clone returns an independent copy of b.
func (b Bits) Clone() Bits {
	if b == nil {
		return nil
	}
	out := make(Bits, len(b))
	copy(out, b)
	return out
}

// Valid reports whether every digit is 0 or 1.
func (b Bits) Valid() bool {
	for _, v := range b {
		if v > 1 {
			return false
		}
	}
	return true
}

// ParseBits converts a string of '0'/'1' characters into Bits.
// Any other character yields a ConfigError naming its position.
func ParseBits(s string) (Bits, error) {
	out := make(Bits, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			out[i] = 0
		case '1':
			out[i] = 1
		default:
			return nil, apperrors.NewConfigError("invalid binary digit %q at position %d in %q", s[i], i, s)
		}
	}
	return out, nil
}

// FromUint returns the low numBits bits of value, most-significant first.
func FromUint(value uint64, numBits int) Bits {
	if numBits <= 0 {
		return Bits{}
	}
	out := make(Bits, numBits)
	for i := 0; i < numBits; i++ {
		shift := numBits - 1 - i
		if shift < 64 {
			out[i] = uint8(value>>uint(shift)) & 1
		}
	}
	return out
}

// FormatSeed renders value as a zero-padded binary string of exactly
// numBits characters. Bits above numBits are discarded.
func FormatSeed(value uint64, numBits int) string {
	if numBits <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(numBits)
	for i := numBits - 1; i >= 0; i-- {
		if i < 64 && value&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
