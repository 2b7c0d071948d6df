// Package tickbitmap implements the sparse, word-indexed bitmap used to
// locate the next initialised tick during a swap without scanning every
// tick in range. Each word covers 256 compressed tick positions; words
// are stored only where written (never deleted once created, matching
// the reference behaviour the spec calls out as an open question with
// no correctness impact).
package tickbitmap

import (
	"github.com/holiman/uint256"

	"github.com/GalaChain/dex-sub000/dexmath/bitmath"
)

// Bitmap is a sparse map from word index to a 256-bit word of
// initialised-tick flags. It is stored directly on the owning Pool, not
// under a separate composite key: the pool exclusively owns its bitmap.
type Bitmap map[int32]*uint256.Int

// wordAndBit splits a tick-spacing-compressed tick into its word index
// and bit position (0-255), with the modulus normalised to be
// non-negative for ticks below zero.
func wordAndBit(compressed int32) (word int32, bit uint) {
	w := compressed >> 8
	b := compressed & 0xFF
	return w, uint(b)
}

// Compress divides a raw tick by tickSpacing, flooring toward negative
// infinity (Go's integer division truncates toward zero, so negative
// ticks need an explicit floor correction).
func Compress(tick, tickSpacing int32) int32 {
	q := tick / tickSpacing
	if tick%tickSpacing != 0 && (tick < 0) != (tickSpacing < 0) {
		q--
	}
	return q
}

// Flip toggles the bit for tick (already validated as a multiple of
// tickSpacing by the caller).
func (b Bitmap) Flip(tick, tickSpacing int32) {
	compressed := Compress(tick, tickSpacing)
	word, bit := wordAndBit(compressed)
	w, ok := b[word]
	if !ok {
		w = new(uint256.Int)
		b[word] = w
	}
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), bit)
	w.Xor(w, mask)
}

// IsInitialized reports whether tick's bit is currently set.
func (b Bitmap) IsInitialized(tick, tickSpacing int32) bool {
	compressed := Compress(tick, tickSpacing)
	word, bit := wordAndBit(compressed)
	w, ok := b[word]
	if !ok {
		return false
	}
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), bit)
	return !new(uint256.Int).And(w, mask).IsZero()
}

// NextInitializedTickWithinOneWord returns the next tick, within the same
// word as currentTick, that is initialised when searching in the given
// direction, or the boundary tick of that word with initialised=false if
// none exists. This bounds the swap stepper to one bitmap word read per
// step, matching the spec's chain-read contract.
//
//   - zeroForOne=true (price decreasing): search bits at or below the
//     current compressed position; on miss, report the word's lowest tick.
//   - zeroForOne=false (price increasing): search bits above the current
//     compressed position; on miss, report the highest tick of the word
//     holding compressed+1.
func (b Bitmap) NextInitializedTickWithinOneWord(currentTick, tickSpacing int32, zeroForOne bool) (next int32, initialized bool) {
	compressed := Compress(currentTick, tickSpacing)

	if zeroForOne {
		word, bit := wordAndBit(compressed)
		w, ok := b[word]
		mask := shiftMask(bit, true)
		var masked *uint256.Int
		if ok {
			masked = new(uint256.Int).And(w, mask)
		} else {
			masked = new(uint256.Int)
		}
		if !masked.IsZero() {
			msb := bitmath.MostSignificantBit(masked)
			return (word*256 + int32(msb)) * tickSpacing, true
		}
		return (word*256 + 0) * tickSpacing, false
	}

	word, bit := wordAndBit(compressed + 1)
	w, ok := b[word]
	mask := shiftMask(bit, false)
	var masked *uint256.Int
	if ok {
		masked = new(uint256.Int).And(w, mask)
	} else {
		masked = new(uint256.Int)
	}
	if !masked.IsZero() {
		lsb := bitmath.LeastSignificantBit(masked)
		return (word*256 + int32(lsb)) * tickSpacing, true
	}
	return (word*256 + 255) * tickSpacing, false
}

// shiftMask builds a mask covering bits [0,bit] when lte is true (search
// at-or-below), or bits [bit,255] when lte is false (search at-or-above).
func shiftMask(bit uint, lte bool) *uint256.Int {
	one := uint256.NewInt(1)
	if lte {
		if bit == 255 {
			return new(uint256.Int).Not(new(uint256.Int))
		}
		shifted := new(uint256.Int).Lsh(one, bit+1)
		return new(uint256.Int).Sub(shifted, uint256.NewInt(1))
	}
	low := new(uint256.Int).Lsh(one, bit)
	lowMinusOne := new(uint256.Int).Sub(low, uint256.NewInt(1))
	allOnes := new(uint256.Int).Not(new(uint256.Int))
	return new(uint256.Int).Xor(allOnes, lowMinusOne)
}
