package dsv

// DefaultMaxColumns is the default ceiling on columns per row.
const DefaultMaxColumns = 4096

// Options is the immutable parser/writer configuration (spec §3,
// ParserOptions). It is built once by NewOptions, validated at
// construction, and may be shared read-only across any number of Readers
// and Writers.
type Options[T Unit] struct {
	// Delimiter separates columns. Default ',' for byte mode.
	Delimiter T
	// Quote opens and closes a quoted field. Default '"' for byte mode.
	Quote T
	// Escape, when non-nil, makes the following unit inside a field taken
	// verbatim with no state transition. Disables the SIMD fast path
	// (escapes require sequential processing, spec §4.2).
	Escape *T
	// Comment, when non-nil, marks a row whose first non-whitespace unit
	// equals *Comment as a comment row: consumed, yields no columns.
	Comment *T
	// QuotingEnabled turns on quote-aware parsing.
	QuotingEnabled bool
	// NewlinesInQuotesAllowed: when false, a bare CR or LF inside a quoted
	// field fails with KindNewlineInQuote.
	NewlinesInQuotesAllowed bool
	// UseSIMD selects the chunked fast path (scan_fastpath.go) for byte
	// input when no Escape is configured. On builds/CPUs without the AVX-512
	// mask generator (scan_amd64_simd.go) that path uses the portable mask
	// generator in scan_scalar.go; uint16 input always takes tokenizeScalar.
	UseSIMD bool
	// MaxColumns bounds column_count+1; must be positive.
	MaxColumns int
	// MaxFieldLength, when non-nil, bounds a single column's length.
	MaxFieldLength *int
	// TrackLineNumbers: when true, the tokenizer counts '\n' occurrences
	// consumed, including those inside quoted fields.
	TrackLineNumbers bool
	// TrimFields: when true, DsvRowView.Column trims leading/trailing
	// ASCII space and tab at access time, not at parse time (spec §4.3).
	TrimFields bool
}

// NewOptions returns the default Options for byte-mode (UTF-8) parsing:
// comma-delimited, double-quote quoting enabled, CR/LF inside quoted fields
// allowed, SIMD enabled, MaxColumns = DefaultMaxColumns.
func NewOptions() (*Options[byte], error) {
	return BuildOptions(Options[byte]{
		Delimiter:               ',',
		Quote:                   '"',
		QuotingEnabled:          true,
		NewlinesInQuotesAllowed: true,
		UseSIMD:                 true,
		MaxColumns:              DefaultMaxColumns,
	})
}

// BuildOptions validates opts and returns a pointer to an immutable copy, or
// a *Error with Kind == KindInvalidOptions. Construction fails if
// Delimiter == Quote, if Delimiter or Quote is '\n' or '\r', or if
// MaxColumns <= 0 (spec §3 Invariants).
func BuildOptions[T Unit](opts Options[T]) (*Options[T], error) {
	var lf, cr T = T('\n'), T('\r')

	if opts.MaxColumns <= 0 {
		return nil, newConfigError("max_columns must be positive")
	}
	if opts.Delimiter == opts.Quote {
		return nil, newConfigError("delimiter must differ from quote")
	}
	if opts.Delimiter == lf || opts.Delimiter == cr {
		return nil, newConfigError("delimiter must not be CR or LF")
	}
	if opts.Quote == lf || opts.Quote == cr {
		return nil, newConfigError("quote must not be CR or LF")
	}
	if opts.Escape != nil && (*opts.Escape == opts.Delimiter) {
		return nil, newConfigError("escape must differ from delimiter")
	}
	if opts.Comment != nil && *opts.Comment == opts.Delimiter {
		return nil, newConfigError("comment must differ from delimiter")
	}

	o := opts
	return &o, nil
}

// simdEligible reports whether the options permit the SIMD fast path:
// advisory UseSIMD is on, and no Escape is configured (escapes require
// sequential processing, spec §4.2).
func (o *Options[T]) simdEligible() bool {
	return o.UseSIMD && o.Escape == nil
}
