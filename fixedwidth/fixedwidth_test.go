package fixedwidth

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func mustLayout(t *testing.T, fields []FieldLayout) *Layout {
	t.Helper()
	l, err := NewLayout(fields)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestNewLayout_RejectsOverlap(t *testing.T) {
	_, err := NewLayout([]FieldLayout{
		{Name: "a", Start: 0, Length: 5},
		{Name: "b", Start: 3, Length: 5},
	})
	if err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestNewLayout_AllowsGaps(t *testing.T) {
	l := mustLayout(t, []FieldLayout{
		{Name: "a", Start: 0, Length: 3},
		{Name: "b", Start: 10, Length: 3},
	})
	if l.RecordWidth() != 13 {
		t.Fatalf("got %d", l.RecordWidth())
	}
}

// TestS6FixedWidthAlignment grounds the spec's S6 scenario: id [0,10)
// right-padded with '0', name [10,30) left-padded with ' '.
func TestS6FixedWidthAlignment(t *testing.T) {
	layout := mustLayout(t, []FieldLayout{
		{Name: "id", Start: 0, Length: 10, Align: AlignRight, PadByte: '0'},
		{Name: "name", Start: 10, Length: 20, Align: AlignLeft},
	})

	input := "0000000123Alice               \n"
	rd := NewReader(strings.NewReader(input), layout, ReaderOptions{Mode: LineTerminated})
	row, err := rd.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	id, _ := row.GetFieldByName("id")
	name, _ := row.GetFieldByName("name")
	if string(id) != "123" {
		t.Fatalf("id = %q, want 123", id)
	}
	if string(name) != "Alice" {
		t.Fatalf("name = %q, want Alice", name)
	}
}

func TestReader_ShortRowPolicy(t *testing.T) {
	layout := mustLayout(t, []FieldLayout{
		{Name: "a", Start: 0, Length: 5, Align: AlignLeft},
		{Name: "b", Start: 5, Length: 5, Align: AlignLeft},
	})

	t.Run("disallowed", func(t *testing.T) {
		rd := NewReader(strings.NewReader("abc\n"), layout, ReaderOptions{Mode: LineTerminated, AllowShortRows: false})
		_, err := rd.ReadRow()
		if err == nil {
			t.Fatal("expected FieldOutOfBounds error")
		}
	})

	t.Run("allowed", func(t *testing.T) {
		rd := NewReader(strings.NewReader("abc\n"), layout, ReaderOptions{Mode: LineTerminated, AllowShortRows: true})
		row, err := rd.ReadRow()
		if err != nil {
			t.Fatal(err)
		}
		b := row.GetField(1)
		if string(b) != "" {
			t.Fatalf("b = %q, want empty (short row padded)", b)
		}
	})
}

func TestReader_CommentSkip(t *testing.T) {
	layout := mustLayout(t, []FieldLayout{{Name: "a", Start: 0, Length: 3}})
	rd := NewReader(strings.NewReader("abc\n#xx\ndef\n"), layout, ReaderOptions{Mode: LineTerminated, CommentMarker: '#'})

	var got []string
	for {
		row, err := rd.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, string(row.GetField(0)))
	}
	if len(got) != 2 || got[0] != "abc" || got[1] != "def" {
		t.Fatalf("got %v", got)
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	layout := mustLayout(t, []FieldLayout{
		{Name: "id", Start: 0, Length: 10, Align: AlignRight, PadByte: '0'},
		{Name: "name", Start: 10, Length: 20, Align: AlignLeft},
	})

	var buf bytes.Buffer
	w := NewWriter(&buf, layout, WriterOptions{Mode: LineTerminated})
	if err := w.WriteRow([][]byte{[]byte("123"), []byte("Alice")}); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := "0000000123Alice               \n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}

	rd := NewReader(strings.NewReader(buf.String()), layout, ReaderOptions{Mode: LineTerminated})
	row, err := rd.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	id, _ := row.GetFieldByName("id")
	if string(id) != "123" {
		t.Fatalf("round-trip id = %q", id)
	}
}

func TestWriter_TooLongFieldWithoutTruncate(t *testing.T) {
	layout := mustLayout(t, []FieldLayout{{Name: "a", Start: 0, Length: 3}})
	var buf bytes.Buffer
	w := NewWriter(&buf, layout, WriterOptions{Mode: LineTerminated, AllowTruncate: false})
	if err := w.WriteRow([][]byte{[]byte("abcdef")}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestFixedRecordLengthMode(t *testing.T) {
	layout := mustLayout(t, []FieldLayout{
		{Name: "a", Start: 0, Length: 3},
		{Name: "b", Start: 3, Length: 3},
	})
	input := "abcdefghiklm" // two 6-byte records, no terminators
	rd := NewReader(strings.NewReader(input), layout, ReaderOptions{Mode: FixedRecordLength})

	var got []string
	for {
		row, err := rd.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, string(row.GetField(0))+string(row.GetField(1)))
	}
	want := []string{"abcdef", "ghiklm"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}
}
