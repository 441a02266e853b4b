package querysql

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// Literal renders a value as a SQLite literal.
//
//	Text    'O''Brien'
//	Integer 42
//	Float   1.5, 9e999 / -9e999 for infinities, NULL for NaN
//	Blob    X'0AFF'
//	Null    NULL
func Literal(v value.Value) string {
	switch val := v.(type) {
	case value.Integer:
		return strconv.FormatInt(int64(val), 10)
	case value.Float:
		f := float64(val)
		switch {
		case math.IsNaN(f):
			return "NULL"
		case math.IsInf(f, 1):
			return "9e999"
		case math.IsInf(f, -1):
			return "-9e999"
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			// Keep REAL storage class for integral floats.
			s += ".0"
		}
		return s
	case value.Text:
		return quoteText(string(val))
	case value.Blob:
		return "X'" + strings.ToUpper(hex.EncodeToString(val)) + "'"
	default:
		return "NULL"
	}
}

func quoteText(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
