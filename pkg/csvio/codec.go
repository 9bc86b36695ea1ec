package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/Fr0glo/productsampler/pkg/table"
	util_errors "github.com/Fr0glo/productsampler/pkg/util/errors"
)

const utf8BOM = "\ufeff"

// Decode parses a whole CSV document. The first record is the header and
// fixes the schema; every following record must have the same number of
// fields.
func Decode(r io.Reader, cfg Config) (*table.Table, error) {
	comma, err := cfg.comma()
	if err != nil {
		return nil, util_errors.WithCause(table.ErrInvalidArgument, err)
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = cfg.LazyQuotes
	// Zero means the header sets the expected field count.
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Wrap(table.ErrParse, "missing header row")
	}
	if err != nil {
		return nil, classifyReadError(err, "read header")
	}

	var rows []table.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classifyReadError(err, "read record")
		}
		rows = append(rows, record)
	}

	t, err := table.New(uniqueColumns(header), rows)
	if err != nil {
		return nil, util_errors.WithCause(table.ErrParse, err)
	}
	return t, nil
}

// Encode renders t as CSV: the header followed by one record per row, in
// table order. No index column is added.
func Encode(w io.Writer, t *table.Table, cfg Config) error {
	comma, err := cfg.comma()
	if err != nil {
		return util_errors.WithCause(table.ErrInvalidArgument, err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := writeRecord(w, cw, t.Columns); err != nil {
		return util_errors.WithCause(table.ErrIO, err)
	}
	for _, r := range t.Rows {
		if err := writeRecord(w, cw, r); err != nil {
			return util_errors.WithCause(table.ErrIO, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return util_errors.WithCause(table.ErrIO, err)
	}
	return nil
}

// writeRecord writes record through cw. A record made of one empty field is
// written quoted, as csv.Writer would emit a blank line that readers skip.
func writeRecord(w io.Writer, cw *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return cw.Write(record)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}

func classifyReadError(err error, op string) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) ||
		errors.Is(err, gzip.ErrHeader) ||
		errors.Is(err, gzip.ErrChecksum) ||
		errors.Is(err, snappy.ErrCorrupt) ||
		errors.Is(err, snappy.ErrUnsupported) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return util_errors.WithCause(errors.Wrap(table.ErrParse, op), err)
	}
	return util_errors.WithCause(errors.Wrap(table.ErrIO, op), err)
}

// uniqueColumns strips a leading byte order mark and renames repeated
// header names to name.1, name.2, ... so every column stays addressable.
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	copy(columns, header)
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], utf8BOM)
	}

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}

	counts := make(map[string]int, len(columns))
	for i, c := range columns {
		n := counts[c]
		counts[c] = n + 1
		if n == 0 {
			continue
		}
		name := fmt.Sprintf("%s.%d", c, n)
		for seen[name] {
			n++
			name = fmt.Sprintf("%s.%d", c, n)
		}
		counts[c] = n + 1
		seen[name] = true
		columns[i] = name
	}
	return columns
}
