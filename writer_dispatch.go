package dsv

// needsQuotingBytesImpl is the active byte-mode quoting check. It defaults
// to the portable scalar loop and is overridden at init time by
// writer_amd64_simd.go when the host CPU has AVX-512F/BW/VL and the
// binary was built with GOEXPERIMENT=simd on amd64.
var needsQuotingBytesImpl = needsQuotingBytesScalar

func needsQuotingBytesScalar(field []byte, delimiter byte, quotingEnabled bool, quote byte) bool {
	return needsQuotingScalar(field, delimiter, quotingEnabled, quote)
}
