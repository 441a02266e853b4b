package export

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// CSVEncoder writes RFC 4180 CSV with a header row. NULL is written as the
// text NULL and blobs as lowercase hex.
type CSVEncoder struct {
	w       *csv.Writer
	buf     *bufio.Writer
	columns []string
	record  []string
}

// NewCSVEncoder buffers output to w in 64KB chunks.
func NewCSVEncoder(w io.Writer) *CSVEncoder {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &CSVEncoder{
		w:   csv.NewWriter(buf),
		buf: buf,
	}
}

// WriteHeader writes the column names as the first record.
func (e *CSVEncoder) WriteHeader(columns []string) error {
	e.columns = columns
	e.record = make([]string, len(columns))
	return e.w.Write(columns)
}

// WriteRow writes one record. The row must match the header width.
func (e *CSVEncoder) WriteRow(row value.Row) error {
	if err := checkWidth(e.columns, row); err != nil {
		return err
	}
	for i, v := range row.Values() {
		e.record[i] = cellText(v)
	}
	return e.w.Write(e.record)
}

// Flush pushes buffered records to the underlying writer.
func (e *CSVEncoder) Flush() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return err
	}
	return e.buf.Flush()
}

// Error reports any error from a previous write or flush.
func (e *CSVEncoder) Error() error {
	return e.w.Error()
}

// Close flushes. The underlying writer is left open.
func (e *CSVEncoder) Close() error {
	return e.Flush()
}
