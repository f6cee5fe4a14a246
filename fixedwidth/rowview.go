package fixedwidth

// RowView is a borrowed view over one fixed-width record, in the same
// zero-copy spirit as dsv.DsvRowView: it holds a slice into the caller's
// buffer and a *Layout, and never allocates in GetRawField/GetField.
type RowView struct {
	payload []byte
	layout  *Layout
}

func newRowView(payload []byte, layout *Layout) RowView {
	return RowView{payload: payload, layout: layout}
}

// FieldCount returns the number of fields in the record's layout.
func (r RowView) FieldCount() int { return r.layout.FieldCount() }

// GetRawField returns field i's raw byte range, padding included.
func (r RowView) GetRawField(i int) []byte {
	f := r.layout.Field(i)
	return r.payload[f.Start : f.Start+f.Length]
}

// GetField returns field i trimmed per its own Alignment (AlignNone
// performs no trim, matching GetRawField).
func (r RowView) GetField(i int) []byte {
	f := r.layout.Field(i)
	return trimAligned(r.GetRawField(i), f.Align, f.PadByte)
}

// GetFieldWithAlign returns field i trimmed per align, overriding the
// layout's own Alignment for this call.
func (r RowView) GetFieldWithAlign(i int, align Alignment) []byte {
	f := r.layout.Field(i)
	return trimAligned(r.GetRawField(i), align, f.PadByte)
}

// GetFieldByName looks up a field by its layout name.
func (r RowView) GetFieldByName(name string) ([]byte, bool) {
	i, ok := r.layout.IndexOf(name)
	if !ok {
		return nil, false
	}
	return r.GetField(i), true
}

func trimAligned(raw []byte, align Alignment, pad byte) []byte {
	switch align {
	case AlignLeft:
		return trimTrailing(raw, pad)
	case AlignRight:
		return trimLeading(raw, pad)
	case AlignCenter:
		return trimLeading(trimTrailing(raw, pad), pad)
	default:
		return raw
	}
}

func trimLeading(s []byte, pad byte) []byte {
	i := 0
	for i < len(s) && s[i] == pad {
		i++
	}
	return s[i:]
}

func trimTrailing(s []byte, pad byte) []byte {
	j := len(s)
	for j > 0 && s[j-1] == pad {
		j--
	}
	return s[:j]
}
