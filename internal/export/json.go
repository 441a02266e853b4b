package export

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// JSONEncoder writes JSON Lines: one object per row, keys in column order.
// Blobs are hex strings and non-finite reals are null.
type JSONEncoder struct {
	w       io.Writer
	columns []string
	err     error
}

// NewJSONEncoder returns an encoder writing one object per line to w.
func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

// WriteHeader captures the column names used as object keys. No output is
// produced.
func (e *JSONEncoder) WriteHeader(columns []string) error {
	e.columns = columns
	return nil
}

// WriteRow writes the row as one JSON object, keys in column order.
func (e *JSONEncoder) WriteRow(row value.Row) error {
	if e.err != nil {
		return e.err
	}
	if err := checkWidth(e.columns, row); err != nil {
		return err
	}

	var line bytes.Buffer
	line.WriteByte('{')
	for i, cell := range row {
		if i > 0 {
			line.WriteByte(',')
		}
		key, err := json.Marshal(e.columns[i])
		if err != nil {
			e.err = err
			return err
		}
		val, err := json.Marshal(jsonValue(cell.Value))
		if err != nil {
			e.err = err
			return err
		}
		line.Write(key)
		line.WriteByte(':')
		line.Write(val)
	}
	line.WriteString("}\n")

	if _, err := e.w.Write(line.Bytes()); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Flush is a no-op beyond reporting the first write error; rows are
// written as they arrive.
func (e *JSONEncoder) Flush() error {
	return e.err
}

// Error reports the first write error.
func (e *JSONEncoder) Error() error {
	return e.err
}

// Close is Flush. The underlying writer is left open.
func (e *JSONEncoder) Close() error {
	return e.Flush()
}

func jsonValue(v value.Value) any {
	switch x := v.(type) {
	case value.Integer:
		return int64(x)
	case value.Float:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
		return f
	case value.Text:
		return string(x)
	case value.Blob:
		return hex.EncodeToString(x)
	default:
		return nil
	}
}
