package dsv

// RowParseResult is the value-type output of TokenizeRow (spec §3). A
// zero RowParseResult with ColumnCount == 0 and CharsConsumed == 0 means
// "empty input, no row here" (only possible when data itself was empty);
// ColumnCount == 0 with CharsConsumed > 0 means a comment row was consumed.
type RowParseResult struct {
	ColumnCount      int
	RowLength        int
	CharsConsumed    int
	NewlinesConsumed int
}

// tokenizer logical states (spec §4.2).
const (
	stateFieldStart = iota
	stateInField
	stateInQuote
	stateAfterClosingQuote
)

// TokenizeRow is the C3 row tokenizer: a pure function of (data, atEOF,
// opts, ends) to (RowParseResult, complete, error), with no suspension
// points (spec §5). It locates exactly one logical row starting at
// data[0]. ends must have capacity >= opts.MaxColumns+1.
//
// atEOF follows the stdlib bufio.Scanner split-function convention: it
// tells the tokenizer whether data is the entirety of the remaining input.
// When the row cannot yet be determined to be complete and atEOF is
// false, TokenizeRow returns complete == false and a nil error — the
// stream driver (stream.go) is expected to buffer more data and retry.
// When atEOF is true, every incomplete condition instead resolves to
// either a successful EOF-terminated row or a terminal error
// (KindUnterminatedQuote).
func TokenizeRow[T Unit](data []T, atEOF bool, opts *Options[T], ends []int) (RowParseResult, bool, error) {
	if len(data) == 0 {
		if atEOF {
			return RowParseResult{}, true, nil
		}
		return RowParseResult{}, false, nil
	}

	if opts.Comment != nil {
		isComment, needMore := peekIsComment(data, atEOF, *opts.Comment)
		if needMore {
			return RowParseResult{}, false, nil
		}
		if isComment {
			return tokenizeCommentRow(data, atEOF)
		}
	}

	if raw, ok := asBytes(data); ok {
		if byteOpts, ok := any(opts).(*Options[byte]); ok && byteOpts.simdEligible() && len(raw) >= simdMinThreshold {
			if byteEnds, ok := any(ends).([]int); ok {
				return tokenizeBytesSIMD(raw, atEOF, byteOpts, byteEnds)
			}
		}
	}

	return tokenizeScalar(data, atEOF, opts, ends)
}

// peekIsComment scans leading space/tab (spec §4.2 comment rule) and
// reports whether the first non-whitespace unit equals marker. needMore is
// true when the peek ran past the end of data without finding a
// non-whitespace unit and atEOF is false (the caller cannot yet tell).
func peekIsComment[T Unit](data []T, atEOF bool, marker T) (isComment, needMore bool) {
	var sp, tab T = T(' '), T('\t')
	i := 0
	for i < len(data) && (data[i] == sp || data[i] == tab) {
		i++
	}
	if i >= len(data) {
		return false, !atEOF
	}
	return data[i] == marker, false
}

// tokenizeCommentRow consumes a comment row to (and including) its
// terminator and returns ColumnCount == 0, per spec §4.2's comment rule.
func tokenizeCommentRow[T Unit](data []T, atEOF bool) (RowParseResult, bool, error) {
	var cr, lf T = T('\r'), T('\n')
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case lf:
			return RowParseResult{RowLength: i, CharsConsumed: i + 1, NewlinesConsumed: 1}, true, nil
		case cr:
			if i+1 < len(data) {
				if data[i+1] == lf {
					return RowParseResult{RowLength: i, CharsConsumed: i + 2, NewlinesConsumed: 1}, true, nil
				}
				return RowParseResult{RowLength: i, CharsConsumed: i + 1}, true, nil
			}
			if atEOF {
				return RowParseResult{RowLength: i, CharsConsumed: i + 1}, true, nil
			}
			return RowParseResult{}, false, nil
		}
	}
	if atEOF {
		return RowParseResult{RowLength: len(data), CharsConsumed: len(data)}, true, nil
	}
	return RowParseResult{}, false, nil
}

// tokenizeScalar is the reference state machine (spec §4.2), correct for
// both Unit instantiations and for every option combination, including
// Escape. It is always used for T == uint16, and is the fallback the SIMD
// byte fast path (scan_amd64_simd.go via tokenizeBytesSIMD) delegates to
// whenever a chunk's quote bits are anything but "no quotes at all" —
// see tokenizeBytesSIMD's doc comment for why that's a conservative but
// spec-legal realization of §4.2 step 6.
func tokenizeScalar[T Unit](data []T, atEOF bool, opts *Options[T], ends []int) (RowParseResult, bool, error) {
	var cr, lf T = T('\r'), T('\n')

	ends[0] = -1
	columnCount := 0
	colStart := 0
	newlinesConsumed := 0
	state := stateFieldStart
	quoteOpenPos := -1

	appendEnd := func(pos int) *Error {
		if opts.MaxFieldLength != nil && pos-colStart > *opts.MaxFieldLength {
			return newError(KindFieldTooLong, 0, 0, colStart)
		}
		if columnCount+1 > opts.MaxColumns {
			return newError(KindTooManyColumns, 0, 0, pos)
		}
		columnCount++
		ends[columnCount] = pos
		colStart = pos + 1
		return nil
	}

	finishAtEOF := func() (RowParseResult, bool, error) {
		if state == stateInQuote {
			return RowParseResult{}, true, newError(KindUnterminatedQuote, 0, 0, quoteOpenPos)
		}
		if err := appendEnd(len(data)); err != nil {
			return RowParseResult{}, true, err
		}
		return RowParseResult{
			ColumnCount:      columnCount,
			RowLength:        len(data),
			CharsConsumed:    len(data),
			NewlinesConsumed: newlinesConsumed,
		}, true, nil
	}

	terminate := func(pos int) (RowParseResult, bool, error) {
		if err := appendEnd(pos); err != nil {
			return RowParseResult{}, true, err
		}
		if data[pos] == cr {
			if pos+1 >= len(data) {
				if !atEOF {
					return RowParseResult{}, false, nil
				}
				return RowParseResult{ColumnCount: columnCount, RowLength: pos, CharsConsumed: pos + 1, NewlinesConsumed: newlinesConsumed}, true, nil
			}
			if data[pos+1] == lf {
				return RowParseResult{ColumnCount: columnCount, RowLength: pos, CharsConsumed: pos + 2, NewlinesConsumed: newlinesConsumed + 1}, true, nil
			}
			return RowParseResult{ColumnCount: columnCount, RowLength: pos, CharsConsumed: pos + 1, NewlinesConsumed: newlinesConsumed}, true, nil
		}
		// lf
		return RowParseResult{ColumnCount: columnCount, RowLength: pos, CharsConsumed: pos + 1, NewlinesConsumed: newlinesConsumed + 1}, true, nil
	}

	pos := 0
	for pos < len(data) {
		unit := data[pos]

		if opts.Escape != nil && *opts.Escape == unit && (state == stateFieldStart || state == stateInField) {
			if pos+1 >= len(data) && !atEOF {
				return RowParseResult{}, false, nil
			}
			state = stateInField
			if pos+1 < len(data) {
				pos += 2
			} else {
				pos++
			}
			continue
		}

		switch state {
		case stateFieldStart:
			switch {
			case opts.QuotingEnabled && unit == opts.Quote:
				state = stateInQuote
				quoteOpenPos = pos
				pos++
			case unit == opts.Delimiter:
				if err := appendEnd(pos); err != nil {
					return RowParseResult{}, true, err
				}
				pos++
			case unit == cr || unit == lf:
				return terminate(pos)
			default:
				state = stateInField
				pos++
			}

		case stateInField:
			switch {
			case unit == opts.Delimiter:
				if err := appendEnd(pos); err != nil {
					return RowParseResult{}, true, err
				}
				state = stateFieldStart
				pos++
			case unit == cr || unit == lf:
				return terminate(pos)
			default:
				// A quote encountered mid-field (not at FieldStart) is
				// treated as a literal — the non-strict reading spec §9
				// adopts, since the field did not open with a quote.
				pos++
			}

		case stateInQuote:
			switch {
			case opts.QuotingEnabled && unit == opts.Quote:
				if pos+1 < len(data) && data[pos+1] == opts.Quote {
					pos += 2 // doubled quote: literal, stay in InQuote
					continue
				}
				if pos+1 >= len(data) && !atEOF {
					return RowParseResult{}, false, nil
				}
				state = stateAfterClosingQuote
				pos++
			case unit == cr || unit == lf:
				if !opts.NewlinesInQuotesAllowed {
					return RowParseResult{}, true, newError(KindNewlineInQuote, 0, 0, pos)
				}
				if opts.TrackLineNumbers && unit == lf {
					newlinesConsumed++
				}
				pos++
			default:
				pos++
			}

		case stateAfterClosingQuote:
			switch {
			case unit == opts.Delimiter:
				if err := appendEnd(pos); err != nil {
					return RowParseResult{}, true, err
				}
				state = stateFieldStart
				pos++
			case unit == cr || unit == lf:
				return terminate(pos)
			default:
				// Lenient: anything else after a closing quote is
				// accepted as field content (spec §4.2, §9).
				state = stateInField
				pos++
			}
		}
	}

	if !atEOF {
		return RowParseResult{}, false, nil
	}
	return finishAtEOF()
}
