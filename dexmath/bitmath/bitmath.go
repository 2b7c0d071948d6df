// Package bitmath implements most/least-significant-bit scans over a
// 256-bit word, the primitive the tick bitmap uses to locate the next
// initialised tick. The scan is a manual binary cascade over the
// thresholds {128,64,32,16,8,4,2,1} rather than a call into a
// language-provided 256-bit bit-scan, per the design note that a
// 256-bit word is not a machine word in Go.
package bitmath

import "github.com/holiman/uint256"

var thresholds = [8]uint{128, 64, 32, 16, 8, 4, 2, 1}

// MostSignificantBit returns the index (0-255) of the highest set bit in
// word. word must be non-zero; callers pre-check emptiness the way the
// spec requires (an empty word has no meaningful answer).
func MostSignificantBit(word *uint256.Int) uint {
	if word.IsZero() {
		return 0
	}
	w := new(uint256.Int).Set(word)
	var msb uint
	for _, threshold := range thresholds {
		shifted := new(uint256.Int).Rsh(w, threshold)
		if !shifted.IsZero() {
			msb += threshold
			w = shifted
		}
	}
	return msb
}

// LeastSignificantBit returns the index (0-255) of the lowest set bit in
// word. word must be non-zero.
//
// The lowest set bit of a two's-complement value is isolated by
// `word & (-word)`; what remains is then just the single-bit word whose
// index the same binary cascade used by MostSignificantBit locates.
func LeastSignificantBit(word *uint256.Int) uint {
	if word.IsZero() {
		return 255
	}
	negated := new(uint256.Int).Not(word)
	negated.Add(negated, uint256.NewInt(1))
	isolated := new(uint256.Int).And(word, negated)
	return MostSignificantBit(isolated)
}
