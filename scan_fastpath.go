package dsv

// tokenizeBytesSIMD is the byte-only fast path dispatched from TokenizeRow
// when opts.simdEligible() holds (no Escape configured, UseSIMD requested)
// and at least simdMinThreshold bytes remain. It processes data in
// simdChunkSize-byte chunks using generateMasks/generateMasksPadded
// (scan_dispatch.go), which transparently run on the AVX-512 path on
// capable amd64 builds (scan_amd64_simd.go) or the portable scalar mask
// generator everywhere else (scan_scalar.go) — the chunk loop below is
// identical either way.
//
// Spec §4.2 step 6 allows falling back to "bit-by-bit processing" within a
// chunk whenever doubled quotes make the vectorized inside-quotes mask
// ambiguous to finish cheaply. This implementation takes the conservative
// superset of that allowance: the instant any chunk's quote mask is
// nonzero at all, it abandons the vector loop for the entire remaining row
// and delegates to tokenizeScalar, which implements the exact state
// machine (including escape, non-strict mid-field quotes, and
// newlines-in-quotes) with no duplicated logic. Unquoted and
// quoting-disabled input — the common high-throughput case this path
// exists for — never leaves the vector loop.
func tokenizeBytesSIMD(data []byte, atEOF bool, opts *Options[byte], ends []int) (RowParseResult, bool, error) {
	ends[0] = -1
	columnCount := 0
	colStart := 0
	pos := 0

	appendEnd := func(p int) *Error {
		if opts.MaxFieldLength != nil && p-colStart > *opts.MaxFieldLength {
			return newError(KindFieldTooLong, 0, 0, colStart)
		}
		if columnCount+1 > opts.MaxColumns {
			return newError(KindTooManyColumns, 0, 0, p)
		}
		columnCount++
		ends[columnCount] = p
		colStart = p + 1
		return nil
	}

	for pos < len(data) {
		remaining := data[pos:]
		var m chunkMasks
		var validBits int
		if len(remaining) >= simdChunkSize {
			m = generateMasks(remaining, opts.Delimiter, opts.Quote)
			validBits = simdChunkSize
		} else {
			if !atEOF {
				return RowParseResult{}, false, nil
			}
			m, validBits = generateMasksPadded(remaining, opts.Delimiter, opts.Quote)
		}

		if opts.QuotingEnabled && m.quote != 0 {
			return tokenizeScalar(data, atEOF, opts, ends)
		}

		lineEndMask := m.cr | m.nl
		if lineEndMask == 0 {
			sepMask := m.sep
			for sepMask != 0 {
				b := trailingZero(sepMask)
				if err := appendEnd(pos + b); err != nil {
					return RowParseResult{}, true, err
				}
				sepMask = clearLowestBit(sepMask)
			}
			if validBits < simdChunkSize {
				// Padded final partial chunk with no terminator found: we've
				// consumed everything available, and since this branch only
				// runs with atEOF true (see above), the row ends at EOF.
				if err := appendEnd(len(data)); err != nil {
					return RowParseResult{}, true, err
				}
				return RowParseResult{ColumnCount: columnCount, RowLength: len(data), CharsConsumed: len(data)}, true, nil
			}
			pos += simdChunkSize
			continue
		}

		k := trailingZero(lineEndMask)
		sepMask := m.sep &^ (^uint64(0) << uint(k))
		for sepMask != 0 {
			b := trailingZero(sepMask)
			if err := appendEnd(pos + b); err != nil {
				return RowParseResult{}, true, err
			}
			sepMask = clearLowestBit(sepMask)
		}

		termPos := pos + k
		isCR := m.cr&(uint64(1)<<uint(k)) != 0
		if err := appendEnd(termPos); err != nil {
			return RowParseResult{}, true, err
		}
		if isCR {
			if termPos+1 >= len(data) {
				if !atEOF {
					return RowParseResult{}, false, nil
				}
				return RowParseResult{ColumnCount: columnCount, RowLength: termPos, CharsConsumed: termPos + 1}, true, nil
			}
			if data[termPos+1] == '\n' {
				return RowParseResult{ColumnCount: columnCount, RowLength: termPos, CharsConsumed: termPos + 2, NewlinesConsumed: 1}, true, nil
			}
			return RowParseResult{ColumnCount: columnCount, RowLength: termPos, CharsConsumed: termPos + 1}, true, nil
		}
		return RowParseResult{ColumnCount: columnCount, RowLength: termPos, CharsConsumed: termPos + 1, NewlinesConsumed: 1}, true, nil
	}

	if !atEOF {
		return RowParseResult{}, false, nil
	}
	if err := appendEnd(len(data)); err != nil {
		return RowParseResult{}, true, err
	}
	return RowParseResult{ColumnCount: columnCount, RowLength: len(data), CharsConsumed: len(data)}, true, nil
}
