// Package dsv is a zero-copy, SIMD-accelerated tokenizer for RFC-4180-style
// delimiter-separated values. It parses rows into borrowed views over the
// caller's input buffer: no per-field heap allocation on the hot path.
//
// The tokenizer is generic over the input's element type — byte for UTF-8
// input, uint16 for UTF-16 code units — and is specialized at compile time
// via Go generics rather than at runtime. On amd64, built with
// GOEXPERIMENT=simd, the byte instantiation additionally dispatches to an
// AVX-512 mask-generation fast path (see scan_amd64_simd.go); every other
// build runs the same chunked fast path with the portable mask generator in
// scan_scalar.go, and every uint16 instantiation uses the scalar state
// machine in tokenizer.go. All of these are required to produce identical
// output.
//
// Fixed-width positional records are handled by the sibling package
// github.com/flatrow/dsv/fixedwidth.
package dsv
