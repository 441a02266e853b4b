package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// SheetName is the worksheet every XLSX export writes to.
const SheetName = "Sheet1"

// maxExcelRows is the worksheet row limit, header included.
const maxExcelRows = 1048576

// ErrTooManyRows is returned once a result no longer fits in one worksheet.
var ErrTooManyRows = errors.New("excel row limit exceeded")

// ExcelEncoder writes an .xlsx workbook through excelize's stream writer.
// The workbook is only written to w on Flush.
type ExcelEncoder struct {
	f       *excelize.File
	sw      *excelize.StreamWriter
	w       io.Writer
	columns []string
	rowIdx  int
	err     error
}

// NewExcelEncoder starts a workbook with a single SheetName worksheet. A
// stream writer failure is kept and returned by every later call.
func NewExcelEncoder(w io.Writer) *ExcelEncoder {
	f := excelize.NewFile()
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		_ = f.Close()
		return &ExcelEncoder{err: fmt.Errorf("new stream writer: %w", err)}
	}
	return &ExcelEncoder{f: f, sw: sw, w: w, rowIdx: 1}
}

// WriteHeader writes the column names to the first worksheet row.
func (e *ExcelEncoder) WriteHeader(columns []string) error {
	if e.err != nil {
		return e.err
	}
	e.columns = columns
	row := make([]any, len(columns))
	for i, col := range columns {
		row[i] = col
	}
	return e.setRow(row)
}

// WriteRow appends one worksheet row. Numbers stay numeric cells.
func (e *ExcelEncoder) WriteRow(row value.Row) error {
	if e.err != nil {
		return e.err
	}
	if err := checkWidth(e.columns, row); err != nil {
		return err
	}
	if e.rowIdx > maxExcelRows {
		e.err = fmt.Errorf("%w (%d rows)", ErrTooManyRows, maxExcelRows)
		return e.err
	}

	cells := make([]any, len(row))
	for i, v := range row.Values() {
		cells[i] = excelValue(v)
	}
	return e.setRow(cells)
}

func (e *ExcelEncoder) setRow(cells []any) error {
	ref, err := excelize.CoordinatesToCellName(1, e.rowIdx)
	if err != nil {
		e.err = err
		return err
	}
	if err := e.sw.SetRow(ref, cells); err != nil {
		e.err = err
		return err
	}
	e.rowIdx++
	return nil
}

// Flush finishes the stream and writes the whole workbook to w. Call it
// once, after the last row.
func (e *ExcelEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.sw.Flush(); err != nil {
		e.err = err
		return err
	}
	if err := e.f.Write(e.w); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Error reports the first error the encoder hit.
func (e *ExcelEncoder) Error() error {
	return e.err
}

// Close releases the workbook. It does not flush.
func (e *ExcelEncoder) Close() error {
	if e.f == nil {
		return nil
	}
	return e.f.Close()
}

// excelValue keeps numbers numeric and renders everything else as text.
func excelValue(v value.Value) any {
	switch x := v.(type) {
	case value.Integer:
		return int64(x)
	case value.Float:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return x.String()
		}
		return f
	default:
		return cellText(v)
	}
}
