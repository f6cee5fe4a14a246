package fixedwidth

import (
	"bufio"
	"io"

	"github.com/flatrow/dsv"
)

// Mode selects how Reader locates record boundaries (grounded on
// gofixedwidth's HasEOL: EOLLF/EOLCRLF collapse to LineTerminated here
// since the reader accepts either on a given line, and EOLNONE becomes
// FixedRecordLength).
type Mode int

const (
	// LineTerminated records are separated by LF or CRLF; the terminator
	// itself is not part of the record. A lone CR ends a record only when
	// it is the last byte of the input; anywhere else it is record content.
	LineTerminated Mode = iota
	// FixedRecordLength records have no terminator: each one is exactly
	// layout.RecordWidth() bytes.
	FixedRecordLength
)

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	Mode Mode
	// AllowShortRows: when true, a record shorter than the layout's
	// RecordWidth is right-padded with spaces instead of raising
	// KindFieldOutOfBounds.
	AllowShortRows bool
	// CommentMarker, when non-zero, marks any record whose first byte
	// equals it as a comment to be skipped (gofixedwidth's Comment rune,
	// narrowed to a byte since fixed-width records are typically
	// single-byte-encoded).
	CommentMarker byte
}

// Reader reads fixed-width records per a *Layout.
type Reader struct {
	r      *bufio.Reader
	layout *Layout
	opts   ReaderOptions

	rowNumber int
}

// NewReader returns a Reader over r using layout and opts.
func NewReader(r io.Reader, layout *Layout, opts ReaderOptions) *Reader {
	return &Reader{r: bufio.NewReader(r), layout: layout, opts: opts}
}

// RowNumber returns the 1-based index of the last row returned by ReadRow.
func (rd *Reader) RowNumber() int { return rd.rowNumber }

// ReadRow reads the next non-comment record and returns a RowView over
// it. It returns io.EOF once the source is exhausted.
func (rd *Reader) ReadRow() (RowView, error) {
	for {
		line, err := rd.readRecordBytes()
		if err != nil {
			return RowView{}, err
		}
		if rd.opts.CommentMarker != 0 && len(line) > 0 && line[0] == rd.opts.CommentMarker {
			continue
		}

		width := rd.layout.RecordWidth()
		if len(line) < width {
			if !rd.opts.AllowShortRows {
				return RowView{}, dsv.NewBoundsError(rd.rowNumber+1, 0, len(line))
			}
			padded := make([]byte, width)
			copy(padded, line)
			for i := len(line); i < width; i++ {
				padded[i] = ' '
			}
			line = padded
		}

		rd.rowNumber++
		return newRowView(line, rd.layout), nil
	}
}

// readRecordBytes returns the next record's raw bytes, terminator
// stripped, per rd.opts.Mode.
func (rd *Reader) readRecordBytes() ([]byte, error) {
	if rd.opts.Mode == FixedRecordLength {
		buf := make([]byte, rd.layout.RecordWidth())
		n, err := io.ReadFull(rd.r, buf)
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			if n == 0 {
				return nil, io.EOF
			}
			if err == io.ErrUnexpectedEOF && !rd.opts.AllowShortRows {
				return nil, dsv.NewBoundsError(rd.rowNumber+1, 0, n)
			}
			return buf[:n], nil
		}
		if err != nil {
			return nil, dsv.NewError(dsv.KindIOFailed, rd.rowNumber+1, 0, n)
		}
		return buf, nil
	}
	return rd.readLine()
}

// readLine reads up to and including the next LF, returning the line with
// the LF (and a CR right before it) stripped. A lone CR is stripped only
// at the end of the input; it does not split lines.
func (rd *Reader) readLine() ([]byte, error) {
	line, err := rd.r.ReadBytes('\n')
	if len(line) == 0 && err != nil {
		return nil, err
	}
	if err != nil && err != io.EOF {
		return nil, err
	}

	trimmed := line
	if n := len(trimmed); n > 0 && trimmed[n-1] == '\n' {
		trimmed = trimmed[:n-1]
		if n := len(trimmed); n > 0 && trimmed[n-1] == '\r' {
			trimmed = trimmed[:n-1]
		}
		return trimmed, nil
	}
	// No '\n' found before EOF: the line may still end in a lone CR, or
	// have no terminator at all (final line of input).
	if n := len(trimmed); n > 0 && trimmed[n-1] == '\r' {
		trimmed = trimmed[:n-1]
	}
	return trimmed, nil
}
