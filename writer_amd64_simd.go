//go:build amd64 && goexperiment.simd

package dsv

import (
	"unsafe"

	"golang.org/x/sys/cpu"
	"simd/archsimd"
)

// Grounded on the teacher's writer.go fieldNeedsQuotesSIMD: a 32-byte
// archsimd broadcast-and-compare scan for any of delimiter/CR/LF/quote,
// gated behind the same AVX512F/BW/VL check as the read path
// (scan_amd64_simd.go) for the same ToBits()-issues-VPMOVB2M reason.
func init() {
	if cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL {
		needsQuotingBytesImpl = needsQuotingBytesAVX512
	}
}

func needsQuotingBytesAVX512(field []byte, delimiter byte, quotingEnabled bool, quote byte) bool {
	sepCmp := archsimd.BroadcastInt8x32(int8(delimiter))
	crCmp := archsimd.BroadcastInt8x32('\r')
	nlCmp := archsimd.BroadcastInt8x32('\n')
	quoteCmp := archsimd.BroadcastInt8x32(int8(quote))

	i := 0
	for i+32 <= len(field) {
		chunk := archsimd.LoadInt8x32((*[32]int8)(unsafe.Pointer(&field[i])))
		mask := chunk.Equal(sepCmp).ToBits() | chunk.Equal(crCmp).ToBits() | chunk.Equal(nlCmp).ToBits()
		if quotingEnabled {
			mask |= chunk.Equal(quoteCmp).ToBits()
		}
		if mask != 0 {
			return true
		}
		i += 32
	}
	return needsQuotingBytesScalar(field[i:], delimiter, quotingEnabled, quote)
}
