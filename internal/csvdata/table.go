// Package csvdata parses CSV content into header-keyed records.
package csvdata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// Record maps column name to cell value.
type Record map[string]string

// Table is the parsed content of one CSV file. Columns keeps header order.
type Table struct {
	Columns []string
	Records []Record
	// Bytes is the size of the source content.
	Bytes int64
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Head returns a table holding at most the first n records. Records are
// shared with t, not copied.
func (t *Table) Head(n int) *Table {
	if t == nil {
		return nil
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}
	if n < 0 {
		n = 0
	}
	return &Table{
		Columns: t.Columns,
		Records: t.Records[:n:n],
		Bytes:   t.Bytes,
	}
}

// WithRecords returns a table with t's columns and the given records.
func (t *Table) WithRecords(records []Record) *Table {
	var cols []string
	var size int64
	if t != nil {
		cols, size = t.Columns, t.Bytes
	}
	if len(cols) == 0 && len(records) > 0 {
		cols = ColumnsOf(records)
	}
	return &Table{Columns: cols, Records: records, Bytes: size}
}

// Row returns the cells of record i in column order.
func (t *Table) Row(i int) []string {
	rec := t.Records[i]
	row := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		row[j] = rec[col]
	}
	return row
}

// Clone deep-copies the records.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Records: make([]Record, len(t.Records)),
		Bytes:   t.Bytes,
	}
	for i, rec := range t.Records {
		out.Records[i] = rec.Clone()
	}
	return out
}

// Clone copies the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ColumnsOf derives columns from the first record's keys, sorted, for
// records that arrive without a header.
func ColumnsOf(records []Record) []string {
	if len(records) == 0 {
		return nil
	}
	cols := make([]string, 0, len(records[0]))
	for k := range records[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Parse reads CSV content whose first line is the header. Short rows are
// padded with empty values and extra trailing cells are dropped. Empty input
// gives an empty table.
func Parse(r io.Reader) (*Table, error) {
	counter := &countingReader{r: r}
	data, err := io.ReadAll(counter)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Table{Bytes: counter.n}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	header = uniqueColumns(header)

	t := &Table{Columns: header, Bytes: counter.n}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// uniqueColumns renames repeated or empty header cells so every column has a
// distinct key.
func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		base := h
		if base == "" {
			base = fmt.Sprintf("column_%d", i+1)
		}
		name := base
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}
