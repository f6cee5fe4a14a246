package dsv

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenizeRow_BoundaryBehaviors(t *testing.T) {
	opts := defaultCSVOptions()

	t.Run("empty input", func(t *testing.T) {
		ends := make([]int, opts.MaxColumns+1)
		result, complete, err := TokenizeRow[byte](nil, true, opts, ends)
		if err != nil || !complete {
			t.Fatalf("got (%v, %v, %v)", result, complete, err)
		}
		if result.ColumnCount != 0 || result.CharsConsumed != 0 {
			t.Fatalf("expected zero result, got %+v", result)
		}
	})

	t.Run("lone LF", func(t *testing.T) {
		rows, err := parseAllStrings("\n", opts)
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{""}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})

	t.Run("no terminator at EOF", func(t *testing.T) {
		ends := make([]int, opts.MaxColumns+1)
		result, complete, err := TokenizeRow[byte]([]byte("a"), true, opts, ends)
		if err != nil || !complete {
			t.Fatalf("got (%v, %v, %v)", result, complete, err)
		}
		if result.RowLength != 1 || result.CharsConsumed != 1 {
			t.Fatalf("got %+v", result)
		}
	})

	t.Run("comma then LF", func(t *testing.T) {
		rows, err := parseAllStrings(",\n", opts)
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"", ""}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})

	t.Run("quoted field with comma", func(t *testing.T) {
		rows, err := parseAllStrings("\"a,b\",c\n", opts)
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"a,b", "c"}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})

	t.Run("doubled quote", func(t *testing.T) {
		rows, err := parseAllStrings(`"a""b",c` + "\n", opts)
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{`a"b`, "c"}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})

	t.Run("newlines in quotes allowed", func(t *testing.T) {
		o := mustOptions(Options[byte]{
			Delimiter: ',', Quote: '"', QuotingEnabled: true,
			NewlinesInQuotesAllowed: true, TrackLineNumbers: true,
			MaxColumns: DefaultMaxColumns,
		})
		ends := make([]int, o.MaxColumns+1)
		data := []byte("\"a\n b\",c\n")
		result, complete, err := TokenizeRow[byte](data, true, o, ends)
		if err != nil || !complete {
			t.Fatalf("got (%v, %v, %v)", result, complete, err)
		}
		if result.NewlinesConsumed != 2 {
			t.Fatalf("newlines_consumed = %d, want 2", result.NewlinesConsumed)
		}
		view := newRowView(data[:result.RowLength], ends, result.ColumnCount, o, nil)
		got0, _ := view.TryString(0)
		got1, _ := view.TryString(1)
		if got0 != "a\n b" || got1 != "c" {
			t.Fatalf("got columns %q, %q", got0, got1)
		}
	})

	t.Run("unterminated quote", func(t *testing.T) {
		ends := make([]int, opts.MaxColumns+1)
		_, _, err := TokenizeRow[byte]([]byte("\"unterminated\n"), true, opts, ends)
		var de *Error
		if !errors.As(err, &de) || de.Kind != KindUnterminatedQuote || de.ByteOffset != 0 {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("exactly max_columns succeeds, max_columns+1 fails", func(t *testing.T) {
		o := mustOptions(Options[byte]{Delimiter: ',', Quote: '"', QuotingEnabled: true, MaxColumns: 3})
		ends := make([]int, o.MaxColumns+1)
		ok := []byte("a,b,c\n")
		result, complete, err := TokenizeRow[byte](ok, true, o, ends)
		if err != nil || !complete || result.ColumnCount != 3 {
			t.Fatalf("got (%+v, %v, %v)", result, complete, err)
		}

		tooMany := []byte("a,b,c,d\n")
		_, _, err = TokenizeRow[byte](tooMany, true, o, ends)
		var de *Error
		if !errors.As(err, &de) || de.Kind != KindTooManyColumns {
			t.Fatalf("got %v", err)
		}
	})
}

func TestScenarios(t *testing.T) {
	t.Run("S1 unquoted three-column rows", func(t *testing.T) {
		rows, err := parseAllStrings("a,b,c\nd,e,f\n", defaultCSVOptions())
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"a", "b", "c"}, {"d", "e", "f"}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})

	t.Run("S2 CRLF and trailing empty column", func(t *testing.T) {
		rows, err := parseAllStrings("x,y,\r\nz,,\r\n", defaultCSVOptions())
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"x", "y", ""}, {"z", "", ""}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})

	t.Run("S3 quoted field with comma and doubled quote", func(t *testing.T) {
		rows, err := parseAllStrings(`1,"a,""b"",c",3`+"\n", defaultCSVOptions())
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"1", `a,"b",c`, "3"}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})

	t.Run("S4 comment row", func(t *testing.T) {
		comment := byte('#')
		o := mustOptions(Options[byte]{
			Delimiter: ',', Quote: '"', QuotingEnabled: true,
			Comment: &comment, TrackLineNumbers: true, MaxColumns: DefaultMaxColumns,
		})
		rd := NewReader[byte](FromReader(strings.NewReader("a,b\n# ignore me\nc,d\n")), o)
		var rows [][]string
		for {
			row, err := rd.ReadRow()
			if err != nil {
				break
			}
			rec := make([]string, row.ColumnCount())
			for i := range rec {
				rec[i], _ = row.TryString(i)
			}
			rows = append(rows, rec)
		}
		want := [][]string{{"a", "b"}, {"c", "d"}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
		if rd.LineNumber() != 4 {
			t.Fatalf("line_number after = %d, want 4", rd.LineNumber())
		}
		if rd.RowNumber() != 2 {
			t.Fatalf("row_number after = %d, want 2", rd.RowNumber())
		}
	})

	t.Run("S5 escape character", func(t *testing.T) {
		escape := byte('\\')
		o := mustOptions(Options[byte]{
			Delimiter: ',', Quote: '"', QuotingEnabled: true,
			Escape: &escape, MaxColumns: DefaultMaxColumns,
		})
		rows, err := parseAllStrings(`a\,b,c`+"\n", o)
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"a,b", "c"}}
		if !recordsEqual(rows, want) {
			t.Fatalf("got %v want %v", rows, want)
		}
	})
}

// TestTokenizeRow_CustomQuoteCharSIMDParity guards against the SIMD mask
// generator ignoring opts.Quote: with a non-'"' quote character, a row long
// enough to enter the chunked fast path (>= simdChunkSize bytes) must still
// detect the quote and fall back to the scalar tokenizer, parsing the
// delimiter inside the quoted field as literal content rather than a
// spurious extra column (spec law R4: SIMD and scalar must be
// byte-identical for every legal options combination, including a
// non-default quote character).
func TestTokenizeRow_CustomQuoteCharSIMDParity(t *testing.T) {
	o := mustOptions(Options[byte]{
		Delimiter: ',', Quote: '\'', QuotingEnabled: true,
		UseSIMD: true, MaxColumns: DefaultMaxColumns,
	})

	longField := strings.Repeat("z", 60)
	input := longField + ",'a,b',last\n"
	if len(input) < simdChunkSize {
		t.Fatalf("test input too short to exercise the SIMD chunk path: %d", len(input))
	}

	rows, err := parseAllStrings(input, o)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{longField, "a,b", "last"}}
	if !recordsEqual(rows, want) {
		t.Fatalf("got %v want %v", rows, want)
	}
}
