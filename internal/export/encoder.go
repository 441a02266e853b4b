// Package export writes materialized query results to CSV, JSON Lines, or
// XLSX.
package export

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blackraven36/SF-Sqlite/internal/store"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// ErrRowWidth is returned when a row's width differs from the header's.
var ErrRowWidth = errors.New("row width does not match header")

// ErrUnknownFormat is returned by NewEncoder for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// RowEncoder is implemented by every output format.
type RowEncoder interface {
	// WriteHeader records the column names. It must be called once before
	// any row is written.
	WriteHeader(columns []string) error

	// WriteRow writes one row. The row must be as wide as the header.
	WriteRow(row value.Row) error

	// Flush writes buffered output to the underlying writer.
	Flush() error

	// Error returns the first error the encoder hit, if any.
	Error() error

	io.Closer
}

// Formats lists the names NewEncoder accepts.
var Formats = []string{"csv", "jsonl", "xlsx"}

// ParseFormat normalizes a format name. "json" and "excel" are accepted as
// aliases of jsonl and xlsx.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(name) {
	case "csv":
		return "csv", nil
	case "jsonl", "json":
		return "jsonl", nil
	case "xlsx", "excel":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// NewEncoder returns the encoder for format writing to w.
func NewEncoder(format string, w io.Writer) (RowEncoder, error) {
	name, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch name {
	case "csv":
		return NewCSVEncoder(w), nil
	case "jsonl":
		return NewJSONEncoder(w), nil
	default:
		return NewExcelEncoder(w), nil
	}
}

// Write streams rs through enc and flushes it. The caller closes enc.
func Write(enc RowEncoder, rs *store.ResultSet) error {
	if err := enc.WriteHeader(rs.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rs.Rows {
		if err := enc.WriteRow(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return enc.Error()
}

// cellText is the textual form shared by the CSV and XLSX encoders.
func cellText(v value.Value) string {
	switch x := v.(type) {
	case value.Null:
		return "NULL"
	case value.Text:
		return guardFormula(string(x))
	case value.Blob:
		return hex.EncodeToString(x)
	default:
		return v.String()
	}
}

// guardFormula prefixes text a spreadsheet would evaluate as a formula.
func guardFormula(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}

func checkWidth(header []string, row value.Row) error {
	if len(row) != len(header) {
		return fmt.Errorf("%w: header has %d columns, row has %d", ErrRowWidth, len(header), len(row))
	}
	return nil
}
