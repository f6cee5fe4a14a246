package dsv

import "math/bits"

// This file implements the C2 scan primitives this package actually uses,
// as plain functions over uint64 lane masks: deliberately tiny and
// allocation-free, since the tokenizer's hot loop is built entirely out of
// these. The fast path's "any quote in a chunk delegates the whole row to
// tokenizeScalar" rule (scan_fastpath.go) never needs a CLMUL-style
// prefix-parity inside-quotes mask, so that primitive isn't built here.

// trailingZero returns the index of the lowest set bit in bits, or 64 if
// bits == 0 (i.e. "past the end of the lane").
func trailingZero(maskBits uint64) int {
	return bits.TrailingZeros64(maskBits)
}

// clearLowestBit returns bits with its lowest set bit cleared.
func clearLowestBit(maskBits uint64) uint64 {
	return maskBits & (maskBits - 1)
}

// maskToBits32 is the 32-bit counterpart used by the archsimd lane masks
// (Int8x32.Equal().ToBits() returns a uint32). It exists so callers have a
// single named conversion point rather than scattering uint32(...) casts,
// matching spec §4.1's mask_to_bits primitive.
func maskToBits32(laneMask uint32) uint32 {
	return laneMask
}
