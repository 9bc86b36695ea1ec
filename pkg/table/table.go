package table

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// Row holds one cell per column, in schema order. The empty string marks a
// missing value.
type Row []string

// Table is an ordered, in-memory sequence of rows sharing one schema.
// Pipeline steps never mutate a Table; they build new ones.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// New builds a Table, checking that column names are unique and every row
// has exactly one cell per column.
func New(columns []string, rows []Row) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; ok {
			return nil, errors.Wrapf(ErrInvalidArgument, "duplicate column %q", c)
		}
		index[c] = i
	}

	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, errors.Wrapf(ErrInvalidArgument, "row %d has %d cells, expected %d", i, len(r), len(columns))
		}
	}

	return &Table{
		Columns: columns,
		Rows:    rows,
		index:   index,
	}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Value returns the cell of the given row under the named column.
func (t *Table) Value(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Rows) {
		return "", false
	}
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	return t.Rows[row][i], true
}

// Select returns a new Table holding copies of the rows at indices, in the
// order given. The schema is shared with the receiver.
func (t *Table) Select(indices []int) (*Table, error) {
	rows := make([]Row, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(t.Rows) {
			return nil, errors.Wrapf(ErrInvalidArgument, "row index %d out of range [0, %d)", i, len(t.Rows))
		}
		rows = append(rows, append(Row(nil), t.Rows[i]...))
	}

	return &Table{
		Columns: t.Columns,
		Rows:    rows,
		index:   t.index,
	}, nil
}

// Fingerprint hashes the schema and every cell in order. Two tables with the
// same fingerprint hold the same rows in the same order.
func (t *Table) Fingerprint() uint64 {
	d := xxhash.New()
	writeRecord(d, t.Columns)
	for _, r := range t.Rows {
		writeRecord(d, r)
	}
	return d.Sum64()
}

// Cells are separated by 0x1f (unit separator), records end with 0x1e.
func writeRecord(d *xxhash.Digest, cells []string) {
	_, _ = d.WriteString(strings.Join(cells, "\x1f"))
	_, _ = d.Write([]byte{0x1e})
}
