//go:build amd64 && goexperiment.simd

package dsv

import (
	"unsafe"

	"golang.org/x/sys/cpu"
	"simd/archsimd"
)

// This file is grounded on the teacher's simd_scanner.go: the same
// archsimd.Int8x32 broadcast-and-compare sequence, the same
// VPMOVB2M-via-ToBits() caveat, and the same golang.org/x/sys/cpu feature
// gate (AVX512F + AVX512BW + AVX512VL), because the teacher's own comments
// document that ToBits() issues VPMOVB2M and will SIGILL without AVX-512BW.

func init() {
	if cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL {
		generateMasksImpl = generateMasksAVX512
	}
}

// generateMasksAVX512 generates the four structural-character bitmasks for
// a 64-byte chunk using two 256-bit archsimd compares (low half, high
// half), combined into 64-bit masks. Precondition: len(data) >= 64.
func generateMasksAVX512(data []byte, delimiter, quote byte) chunkMasks {
	quoteCmp := archsimd.BroadcastInt8x32(int8(quote))
	sepCmp := archsimd.BroadcastInt8x32(int8(delimiter))
	crCmp := archsimd.BroadcastInt8x32('\r')
	nlCmp := archsimd.BroadcastInt8x32('\n')

	low := archsimd.LoadInt8x32((*[32]int8)(unsafe.Pointer(&data[0])))
	high := archsimd.LoadInt8x32((*[32]int8)(unsafe.Pointer(&data[32])))

	quoteLow := low.Equal(quoteCmp).ToBits()
	sepLow := low.Equal(sepCmp).ToBits()
	crLow := low.Equal(crCmp).ToBits()
	nlLow := low.Equal(nlCmp).ToBits()

	quoteHigh := high.Equal(quoteCmp).ToBits()
	sepHigh := high.Equal(sepCmp).ToBits()
	crHigh := high.Equal(crCmp).ToBits()
	nlHigh := high.Equal(nlCmp).ToBits()

	return chunkMasks{
		quote: uint64(maskToBits32(quoteLow)) | uint64(maskToBits32(quoteHigh))<<32,
		sep:   uint64(maskToBits32(sepLow)) | uint64(maskToBits32(sepHigh))<<32,
		cr:    uint64(maskToBits32(crLow)) | uint64(maskToBits32(crHigh))<<32,
		nl:    uint64(maskToBits32(nlLow)) | uint64(maskToBits32(nlHigh))<<32,
	}
}
