package dsv

// Unit is the element type a Reader, Writer, or tokenizer operates over:
// byte for UTF-8 input, uint16 for UTF-16 code units. The tokenizer is a
// single generic state machine parameterized over this type; callers pick
// the instantiation that matches their encoding, and no conversion between
// the two happens inside the core (see doc.go).
type Unit interface {
	~byte | ~uint16
}

// asBytes returns data reinterpreted as []byte when T is exactly byte, and
// ok=false otherwise. It is the hook the tokenizer and writer use to dispatch
// to the byte-only SIMD fast path while remaining generic over Unit.
func asBytes[T Unit](data []T) ([]byte, bool) {
	b, ok := any(data).([]byte)
	return b, ok
}
