// Package fixedwidth handles positional fixed-width records: each field
// occupies a fixed byte range within a record rather than being delimited.
// It is the sibling of github.com/flatrow/dsv for the spec's positional
// record format (spec §5), grounded on the same zero-copy-view shape as
// the dsv package's DsvRowView, and on the field-layout/alignment model of
// the gofixedwidth package (github.com/hduplooy/gofixedwidth) retrieved
// alongside the dsv teacher.
package fixedwidth

import (
	"fmt"

	"github.com/flatrow/dsv"
)

func invalidLayout(description string) error {
	return dsv.NewLayoutError(description)
}

// Alignment controls how GetFieldWithAlign trims padding from a field's
// raw fixed-width slice.
type Alignment int

const (
	// AlignNone performs no trim; the raw slice, padding included, is
	// returned as-is.
	AlignNone Alignment = iota
	// AlignLeft trims trailing pad (the field's content was written
	// left-justified, so padding is on the right).
	AlignLeft
	// AlignRight trims leading pad (content right-justified, padding on
	// the left).
	AlignRight
	// AlignCenter trims both leading and trailing pad.
	AlignCenter
)

// FieldLayout describes one field's position within a fixed-width record.
type FieldLayout struct {
	Name   string
	Start  int
	Length int
	Align  Alignment
	// PadByte is the byte trimmed/added for this field; ' ' if zero.
	PadByte byte
}

// Layout is a validated, immutable set of non-overlapping FieldLayouts.
// Build one with NewLayout.
type Layout struct {
	fields      []FieldLayout
	names       map[string]int
	recordWidth int
}

// NewLayout validates fields (non-negative Start, positive Length, no two fields
// overlapping) and returns an immutable Layout whose RecordWidth is the
// highest Start+Length across all fields. Fields need not be supplied in
// Start order and need not tile the record contiguously — gaps between
// fields are permitted and simply never read.
func NewLayout(fields []FieldLayout) (*Layout, error) {
	if len(fields) == 0 {
		return nil, invalidLayout("no fields defined")
	}
	cp := make([]FieldLayout, len(fields))
	copy(cp, fields)
	for i := range cp {
		if cp[i].Length <= 0 {
			return nil, invalidLayout(fmt.Sprintf("field %q: length must be positive", cp[i].Name))
		}
		if cp[i].Start < 0 {
			return nil, invalidLayout(fmt.Sprintf("field %q: start must be non-negative", cp[i].Name))
		}
		if cp[i].PadByte == 0 {
			cp[i].PadByte = ' '
		}
	}
	for i := range cp {
		for j := i + 1; j < len(cp); j++ {
			if rangesOverlap(cp[i].Start, cp[i].Length, cp[j].Start, cp[j].Length) {
				return nil, invalidLayout(fmt.Sprintf("fields %q and %q overlap", cp[i].Name, cp[j].Name))
			}
		}
	}
	width := 0
	names := make(map[string]int, len(cp))
	for i, f := range cp {
		if end := f.Start + f.Length; end > width {
			width = end
		}
		if f.Name != "" {
			names[f.Name] = i
		}
	}
	return &Layout{fields: cp, names: names, recordWidth: width}, nil
}

func rangesOverlap(startA, lenA, startB, lenB int) bool {
	endA, endB := startA+lenA, startB+lenB
	return startA < endB && startB < endA
}

// FieldCount returns the number of fields in the layout.
func (l *Layout) FieldCount() int { return len(l.fields) }

// RecordWidth returns the minimum byte length a record must have to
// satisfy every field in the layout.
func (l *Layout) RecordWidth() int { return l.recordWidth }

// Field returns the FieldLayout at index i.
func (l *Layout) Field(i int) FieldLayout { return l.fields[i] }

// IndexOf returns the field index for name, or false if no field has that
// name.
func (l *Layout) IndexOf(name string) (int, bool) {
	i, ok := l.names[name]
	return i, ok
}
