package dsv

import (
	"strconv"
	"time"
	"unicode/utf16"
	"unsafe"
)

// DsvRowView is a borrowed, zero-copy view over one tokenized row (spec
// §3, §4.3, §6). It does not own payload or ends: both are supplied by the
// caller (typically Reader, stream.go) and are only valid until the next
// call that refills or compacts the underlying buffer. A DsvRowView never
// allocates in Column/TryColumn/ColumnByName; Value allocates only when a
// field needs doubled-quote or escape-character unescaping. The typed
// parsers allocate in those same cases and, for the uint16 instantiation,
// on every call (see columnString).
type DsvRowView[T Unit] struct {
	payload []T
	ends    []int
	opts    *Options[T]
	header  map[string]int // nil if the source has no header row
}

// newRowView wraps payload[:rowLength] and ends[:columnCount+1] into a
// view. ends must be the same slice TokenizeRow wrote into.
func newRowView[T Unit](payload []T, ends []int, columnCount int, opts *Options[T], header map[string]int) DsvRowView[T] {
	return DsvRowView[T]{
		payload: payload,
		ends:    ends[:columnCount+1],
		opts:    opts,
		header:  header,
	}
}

// ColumnCount returns the number of columns in the row.
func (r DsvRowView[T]) ColumnCount() int {
	return len(r.ends) - 1
}

// Column returns the raw payload slice for column i (spec §4.3:
// data[ends[i]+1 .. ends[i+1]]), trimmed of leading/trailing space and tab
// when opts.TrimFields is set. The returned slice still carries any
// surrounding quote characters and un-collapsed doubled-quote escapes
// verbatim — it is the fastest, zero-copy view of the column. Use Value
// for the logical (unescaped) content. Column panics if i is out of
// range; callers that accept arbitrary indices should use TryColumn.
func (r DsvRowView[T]) Column(i int) []T {
	s, ok := r.TryColumn(i)
	if !ok {
		panic("dsv: column index out of range")
	}
	return s
}

// TryColumn is the non-panicking form of Column.
func (r DsvRowView[T]) TryColumn(i int) ([]T, bool) {
	if i < 0 || i >= r.ColumnCount() {
		return nil, false
	}
	start := r.ends[i] + 1
	end := r.ends[i+1]
	field := r.payload[start:end]
	if r.opts.TrimFields {
		field = trimUnit(field)
	}
	return field, true
}

// FieldOffset returns the row-relative byte/unit offset of column i's first
// content unit (i.e. r.ends[i]+1), for diagnostics. Combined with the
// owning Reader's InputOffset (captured when the row was returned), this
// lets a caller report a precise source location for a field, the same
// role the teacher's FieldPos/InputOffset pair serve together.
func (r DsvRowView[T]) FieldOffset(i int) (int, bool) {
	if i < 0 || i >= r.ColumnCount() {
		return 0, false
	}
	return r.ends[i] + 1, true
}

// ColumnByName looks up a column by header name. It returns ok == false if
// the row view has no associated header (see Reader.Header) or the name
// is not present.
func (r DsvRowView[T]) ColumnByName(name string) ([]T, bool) {
	if r.header == nil {
		return nil, false
	}
	i, ok := r.header[name]
	if !ok {
		return nil, false
	}
	return r.TryColumn(i)
}

func trimUnit[T Unit](s []T) []T {
	var sp, tab T = T(' '), T('\t')
	i, j := 0, len(s)
	for i < j && (s[i] == sp || s[i] == tab) {
		i++
	}
	for j > i && (s[j-1] == sp || s[j-1] == tab) {
		j--
	}
	return s[i:j]
}

// stripOuterQuotes removes a single layer of surrounding quote characters
// when present, with no allocation: quoted-field content whose raw slice
// both opens and closes with opts.Quote.
func stripOuterQuotes[T Unit](s []T, quote T) []T {
	if len(s) >= 2 && s[0] == quote && s[len(s)-1] == quote {
		return s[1 : len(s)-1]
	}
	return s
}

// needsUnescape reports whether s (already outer-quote-stripped) contains
// a doubled quote character that must be collapsed to recover the logical
// value — the one case Value cannot serve without allocating.
func needsUnescape[T Unit](s []T, quote T) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == quote && s[i+1] == quote {
			return true
		}
	}
	return false
}

// Value returns the logical (unescaped) content of column i: outer quotes
// stripped, and any doubled-quote escape collapsed to a single literal
// quote. This mirrors the teacher's fast/slow split in its own field
// materialization (needsUnescape gating a buffered copy): the common case
// of a quoted field with no embedded quote is zero-copy; a field with an
// embedded escaped quote is unescaped into a freshly allocated slice,
// since that transformation cannot be expressed as a sub-slice of the
// input. When opts.Escape is set, a field that does not open with a quote
// has each escape unit removed and the unit after it kept verbatim,
// likewise into a fresh slice only when an escape is present.
func (r DsvRowView[T]) Value(i int) ([]T, bool) {
	raw, ok := r.TryColumn(i)
	if !ok {
		return nil, false
	}
	if esc := r.opts.Escape; esc != nil && (!r.opts.QuotingEnabled || len(raw) == 0 || raw[0] != r.opts.Quote) {
		var out []T
		for j := 0; j < len(raw); j++ {
			if raw[j] == *esc && j+1 < len(raw) {
				if out == nil {
					out = append(make([]T, 0, len(raw)), raw[:j]...)
				}
				j++
			}
			if out != nil {
				out = append(out, raw[j])
			}
		}
		if out != nil {
			return out, true
		}
	}
	if !r.opts.QuotingEnabled {
		return raw, true
	}
	stripped := stripOuterQuotes(raw, r.opts.Quote)
	if len(stripped) == len(raw) || !needsUnescape(stripped, r.opts.Quote) {
		return stripped, true
	}
	out := make([]T, 0, len(stripped))
	for i := 0; i < len(stripped); i++ {
		out = append(out, stripped[i])
		if stripped[i] == r.opts.Quote && i+1 < len(stripped) && stripped[i+1] == r.opts.Quote {
			i++
		}
	}
	return out, true
}

// columnString returns column i's Value as a string, converting via
// unsafe.String with no copy for the byte instantiation (the input buffer
// outlives the string only as long as the caller's contract allows — see
// Reader's buffer-reuse note) and via utf16.Decode (which must allocate)
// for the uint16 instantiation.
func columnString[T Unit](r DsvRowView[T], i int) (string, bool) {
	v, ok := r.Value(i)
	if !ok {
		return "", false
	}
	if b, ok := any(v).([]byte); ok {
		return unsafe.String(unsafe.SliceData(b), len(b)), true
	}
	u, ok := any(v).([]uint16)
	if !ok {
		return "", false
	}
	return string(utf16.Decode(u)), true
}

// TryString returns the logical string value of column i.
func (r DsvRowView[T]) TryString(i int) (string, bool) {
	return columnString(r, i)
}

// TryInt64 parses column i as a base-10 signed integer.
func (r DsvRowView[T]) TryInt64(i int) (int64, error) {
	s, ok := columnString(r, i)
	if !ok {
		return 0, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	return strconv.ParseInt(s, 10, 64)
}

// TryInt32 parses column i as a base-10 signed 32-bit integer.
func (r DsvRowView[T]) TryInt32(i int) (int32, error) {
	s, ok := columnString(r, i)
	if !ok {
		return 0, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}

// TryUint64 parses column i as a base-10 unsigned integer.
func (r DsvRowView[T]) TryUint64(i int) (uint64, error) {
	s, ok := columnString(r, i)
	if !ok {
		return 0, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	return strconv.ParseUint(s, 10, 64)
}

// TryUint32 parses column i as a base-10 unsigned 32-bit integer.
func (r DsvRowView[T]) TryUint32(i int) (uint32, error) {
	s, ok := columnString(r, i)
	if !ok {
		return 0, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

// TryDouble parses column i as a 64-bit float.
func (r DsvRowView[T]) TryDouble(i int) (float64, error) {
	s, ok := columnString(r, i)
	if !ok {
		return 0, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	return strconv.ParseFloat(s, 64)
}

// TryBool parses column i per strconv.ParseBool's accepted spellings
// (1, t, T, TRUE, true, True, 0, f, F, FALSE, false, False).
func (r DsvRowView[T]) TryBool(i int) (bool, error) {
	s, ok := columnString(r, i)
	if !ok {
		return false, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	return strconv.ParseBool(s)
}

// TryDateTime parses column i using layout (time.RFC3339 if layout is
// empty).
func (r DsvRowView[T]) TryDateTime(i int, layout string) (time.Time, error) {
	s, ok := columnString(r, i)
	if !ok {
		return time.Time{}, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	if layout == "" {
		layout = time.RFC3339
	}
	return time.Parse(layout, s)
}

// TryTimezone parses column i as an IANA timezone name via time.LoadLocation.
func (r DsvRowView[T]) TryTimezone(i int) (*time.Location, error) {
	s, ok := columnString(r, i)
	if !ok {
		return nil, newError(KindFieldOutOfBounds, 0, 0, 0)
	}
	return time.LoadLocation(s)
}
