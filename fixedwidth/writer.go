package fixedwidth

import (
	"bufio"
	"io"

	"github.com/flatrow/dsv"
)

// WriterOptions configures a Writer.
type WriterOptions struct {
	Mode Mode // FixedRecordLength writes no terminator; LineTerminated writes Terminator.
	Terminator dsv.LineTerminator
	// AllowTruncate: when true, a field value longer than its layout
	// Length is truncated instead of raising KindFieldTooLong.
	AllowTruncate bool
}

// Writer writes fixed-width records per a *Layout, the inverse of Reader:
// each field is padded to its Length using its Alignment, in the same
// spirit as gofixedwidth's Writer (outputSpaces before/after each field
// depending on alignment).
type Writer struct {
	w      *bufio.Writer
	layout *Layout
	opts   WriterOptions
	err    error
}

// NewWriter returns a Writer over w using layout and opts.
func NewWriter(w io.Writer, layout *Layout, opts WriterOptions) *Writer {
	return &Writer{w: bufio.NewWriter(w), layout: layout, opts: opts}
}

// WriteRow writes one record. fields must have layout.FieldCount() entries.
func (w *Writer) WriteRow(fields [][]byte) error {
	if w.err != nil {
		return w.err
	}
	if len(fields) != w.layout.FieldCount() {
		w.err = dsv.NewError(dsv.KindInvalidLayout, 0, 0, 0)
		return w.err
	}
	for i, field := range fields {
		f := w.layout.Field(i)
		if err := w.writeField(field, f); err != nil {
			w.err = err
			return err
		}
	}
	if w.opts.Mode == LineTerminated {
		if err := w.writeTerminator(); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

func (w *Writer) writeField(field []byte, f FieldLayout) error {
	if len(field) > f.Length {
		if !w.opts.AllowTruncate {
			return dsv.NewError(dsv.KindFieldTooLong, 0, 0, f.Start)
		}
		field = field[:f.Length]
	}
	pad := f.Length - len(field)
	switch f.Align {
	case AlignRight:
		if err := w.writePad(pad, f.PadByte); err != nil {
			return err
		}
		_, err := w.w.Write(field)
		return err
	case AlignCenter:
		left := pad / 2
		right := pad - left
		if err := w.writePad(left, f.PadByte); err != nil {
			return err
		}
		if _, err := w.w.Write(field); err != nil {
			return err
		}
		return w.writePad(right, f.PadByte)
	default: // AlignLeft, AlignNone
		if _, err := w.w.Write(field); err != nil {
			return err
		}
		return w.writePad(pad, f.PadByte)
	}
}

func (w *Writer) writePad(n int, pad byte) error {
	if pad == 0 {
		pad = ' '
	}
	for i := 0; i < n; i++ {
		if err := w.w.WriteByte(pad); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeTerminator() error {
	switch w.opts.Terminator {
	case dsv.CRLF:
		_, err := w.w.WriteString("\r\n")
		return err
	case dsv.CR:
		return w.w.WriteByte('\r')
	default:
		return w.w.WriteByte('\n')
	}
}

// Flush flushes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		w.err = err
	}
	return w.err
}

// Error reports any error from a previous WriteRow or Flush.
func (w *Writer) Error() error { return w.err }
