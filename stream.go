package dsv

import (
	"io"

	"github.com/klauspost/cpuid/v2"
)

// Source is the minimal pull-based input abstraction a Reader buffers
// from (spec §4.5). It mirrors io.Reader's contract (a short read is not
// an error; io.EOF signals no more data) so any io.Reader can back a
// Source[byte] via FromReader.
type Source[T Unit] interface {
	ReadUnits(buf []T) (n int, err error)
}

type byteSource struct{ r io.Reader }

func (s byteSource) ReadUnits(buf []byte) (int, error) { return s.r.Read(buf) }

// FromReader adapts a standard io.Reader into a Source[byte].
func FromReader(r io.Reader) Source[byte] { return byteSource{r} }

// sliceSource serves a fixed in-memory slice, one Source.ReadUnits call at
// a time, useful for uint16 (UTF-16 code unit) input that has no natural
// io.Reader counterpart in the standard library.
type sliceSource[T Unit] struct {
	data []T
	pos  int
}

// FromSlice adapts an in-memory slice into a Source[T].
func FromSlice[T Unit](data []T) Source[T] { return &sliceSource[T]{data: data} }

func (s *sliceSource[T]) ReadUnits(buf []T) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(buf, s.data[s.pos:])
	s.pos += n
	return n, nil
}

// defaultInitialBufferSize is sized from the host's L1 data cache when
// available (github.com/klauspost/cpuid/v2), so the first refill tends to
// land a working set that fits L1 rather than an arbitrary guess. This is
// a distinct concern from golang.org/x/sys/cpu's role in scan_amd64_simd.go
// (instruction-set feature gating): cpuid/v2 here only sizes the buffer.
func defaultInitialBufferSize() int {
	const fallback = 64 * 1024
	if cpuid.CPU.Cache.L1D > 0 {
		return cpuid.CPU.Cache.L1D
	}
	return fallback
}

// defaultMaxBufferSize bounds how far Reader will grow its buffer chasing
// a single oversized row before giving up with KindRowTooLarge.
const defaultMaxBufferSize = 64 * 1024 * 1024

// Reader pulls Units from a Source, incrementally buffers them, and
// drives TokenizeRow to yield one DsvRowView per call to ReadRow (spec
// §4.5). It is the streaming counterpart to the pure, allocation-free
// TokenizeRow: the growable buffer and refill/compact logic live here so
// TokenizeRow itself never sees anything but a byte window and an atEOF
// flag.
type Reader[T Unit] struct {
	source Source[T]
	opts   *Options[T]

	buf        []T
	start, end int
	sourceEOF  bool

	maxBufferSize int

	ends []int

	rowNumber  int
	lineNumber int

	header map[string]int

	skipBOM    bool
	bomChecked bool

	inputOffset int64
}

// NewReader constructs a Reader over src using opts. opts must come from
// BuildOptions/NewOptions (or be the zero value only for tests that do not
// care about validation).
func NewReader[T Unit](src Source[T], opts *Options[T]) *Reader[T] {
	return &Reader[T]{
		source:        src,
		opts:          opts,
		buf:           make([]T, defaultInitialBufferSize()),
		maxBufferSize: defaultMaxBufferSize,
		ends:          make([]int, opts.MaxColumns+1),
		lineNumber:    1,
	}
}

// SetMaxBufferSize overrides the buffer growth ceiling (default 64MiB);
// exceeding it while searching for a row terminator yields KindRowTooLarge.
func (rd *Reader[T]) SetMaxBufferSize(n int) { rd.maxBufferSize = n }

// SetSkipBOM enables stripping a leading UTF-8 byte-order mark (EF BB BF)
// before the first row is tokenized. It is a no-op for the uint16
// instantiation, which has no UTF-8 byte encoding to strip. This lives on
// the stream driver rather than the tokenizer itself, since the core
// tokenizer deliberately has no BOM concept: a caller handling its own
// framing (FromSlice, no leading BOM) never pays for this check.
func (rd *Reader[T]) SetSkipBOM(v bool) { rd.skipBOM = v }

// InputOffset returns the byte/unit offset, relative to the start of the
// source, immediately after the last row ReadRow returned.
func (rd *Reader[T]) InputOffset() int64 { return rd.inputOffset }

// RowNumber returns the 1-based index of the last row returned by ReadRow
// (counting only data rows — comment rows are skipped and not counted).
func (rd *Reader[T]) RowNumber() int { return rd.rowNumber }

// LineNumber returns the 1-based physical line number at which the next
// row begins, i.e. one more than the number of newlines consumed so far
// (comment rows included). It advances only when opts.TrackLineNumbers is
// set and otherwise stays at 1.
func (rd *Reader[T]) LineNumber() int { return rd.lineNumber }

// ReadHeader reads one row and records its values as column names for
// subsequent DsvRowView.ColumnByName lookups. It must be called, if at
// all, before the first ReadRow.
func (rd *Reader[T]) ReadHeader() error {
	row, err := rd.ReadRow()
	if err != nil {
		return err
	}
	header := make(map[string]int, row.ColumnCount())
	for i := 0; i < row.ColumnCount(); i++ {
		name, _ := row.TryString(i)
		header[name] = i
	}
	rd.header = header
	rd.rowNumber = 0
	return nil
}

// ReadRow returns the next row, skipping comment rows internally. It
// returns io.EOF once the source is exhausted with no further row
// pending.
func (rd *Reader[T]) ReadRow() (DsvRowView[T], error) {
	for {
		if err := rd.maybeSkipBOM(); err != nil {
			return DsvRowView[T]{}, err
		}

		data := rd.buf[rd.start:rd.end]
		atEOF := rd.sourceEOF

		result, complete, tokErr := TokenizeRow(data, atEOF, rd.opts, rd.ends)
		if tokErr != nil {
			return DsvRowView[T]{}, rd.attachCoords(tokErr)
		}
		if !complete {
			if err := rd.refill(); err != nil {
				return DsvRowView[T]{}, err
			}
			continue
		}
		if result.ColumnCount == 0 && result.CharsConsumed == 0 {
			return DsvRowView[T]{}, io.EOF
		}

		row := newRowView(data[:result.RowLength], rd.ends, result.ColumnCount, rd.opts, rd.header)
		rd.start += result.CharsConsumed
		rd.inputOffset += int64(result.CharsConsumed)
		if rd.opts.TrackLineNumbers {
			rd.lineNumber += result.NewlinesConsumed
		}
		if result.ColumnCount == 0 {
			continue // comment row
		}
		rd.rowNumber++
		return row, nil
	}
}

// maybeSkipBOM strips a leading EF BB BF from the buffered byte stream the
// first time ReadRow is called, pulling in more data if fewer than 3 units
// are buffered yet. Grounded on the teacher's skipUTF8BOM, generalized to
// run once against the Reader's own refill loop rather than a one-shot raw
// buffer.
func (rd *Reader[T]) maybeSkipBOM() error {
	if rd.bomChecked || !rd.skipBOM {
		return nil
	}
	rd.bomChecked = true

	for rd.end-rd.start < 3 && !rd.sourceEOF {
		if err := rd.refill(); err != nil {
			return err
		}
	}
	b, ok := asBytes(rd.buf[rd.start:rd.end])
	if !ok || len(b) < 3 {
		return nil
	}
	if b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		rd.start += 3
		rd.inputOffset += 3
	}
	return nil
}

func (rd *Reader[T]) attachCoords(err error) error {
	de, ok := err.(*Error)
	if !ok {
		return err
	}
	de.RowNumber = rd.rowNumber + 1
	de.LineNumber = rd.lineNumber
	return de
}

// refill compacts consumed bytes out of the buffer, grows it if it is
// already full, and pulls more data from source. It is the only place a
// Reader allocates after construction.
func (rd *Reader[T]) refill() error {
	if rd.sourceEOF {
		// No more data will ever arrive; the caller (ReadRow/TokenizeRow)
		// must resolve the pending row at EOF on the next iteration.
		rd.sourceEOF = true
		return nil
	}

	if rd.start > 0 {
		copy(rd.buf, rd.buf[rd.start:rd.end])
		rd.end -= rd.start
		rd.start = 0
	}

	if rd.end == len(rd.buf) {
		newSize := len(rd.buf) * 2
		if newSize > rd.maxBufferSize {
			if len(rd.buf) >= rd.maxBufferSize {
				return rd.attachCoords(newError(KindRowTooLarge, 0, 0, rd.end))
			}
			newSize = rd.maxBufferSize
		}
		grown := make([]T, newSize)
		copy(grown, rd.buf[:rd.end])
		rd.buf = grown
	}

	n, err := rd.source.ReadUnits(rd.buf[rd.end:])
	rd.end += n
	if err != nil {
		if err == io.EOF {
			rd.sourceEOF = true
			return nil
		}
		return rd.attachCoords(newIOError(rd.rowNumber+1, rd.lineNumber, err))
	}
	if n == 0 {
		// Source made no progress and did not report EOF; treat as
		// exhausted rather than spin.
		rd.sourceEOF = true
	}
	return nil
}
