package dsv

import (
	"io"
	"strings"
)

// parseAllStrings drives a Reader over input to completion and returns the
// logical (unescaped) string value of every column in every row. It is the
// table-driven test harness's workhorse, playing the same role the
// teacher's own tests give to comparing against encoding/csv.
func parseAllStrings(input string, opts *Options[byte]) ([][]string, error) {
	rd := NewReader[byte](FromReader(strings.NewReader(input)), opts)
	var rows [][]string
	for {
		row, err := rd.ReadRow()
		if err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return rows, err
		}
		rec := make([]string, row.ColumnCount())
		for i := range rec {
			rec[i], _ = row.TryString(i)
		}
		rows = append(rows, rec)
	}
}

func mustOptions(o Options[byte]) *Options[byte] {
	built, err := BuildOptions(o)
	if err != nil {
		panic(err)
	}
	return built
}

func defaultCSVOptions() *Options[byte] {
	opts, err := NewOptions()
	if err != nil {
		panic(err)
	}
	return opts
}

func recordsEqual(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
