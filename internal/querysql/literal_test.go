package querysql

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

func TestLiteral(t *testing.T) {
	testCases := []struct {
		name string
		in   value.Value
		want string
	}{
		{"integer", value.Integer(42), "42"},
		{"negative integer", value.Integer(-1), "-1"},
		{"float", value.Float(1.5), "1.5"},
		{"integral float", value.Float(3), "3.0"},
		{"large float", value.Float(1e21), "1e+21"},
		{"positive infinity", value.Float(math.Inf(1)), "9e999"},
		{"negative infinity", value.Float(math.Inf(-1)), "-9e999"},
		{"nan", value.Float(math.NaN()), "NULL"},
		{"text", value.Text("Serguei Fedorov"), "'Serguei Fedorov'"},
		{"text with quote", value.Text("O'Brien"), "'O''Brien'"},
		{"injection attempt", value.Text("x'; DROP TABLE t; --"), "'x''; DROP TABLE t; --'"},
		{"empty text", value.Text(""), "''"},
		{"blob", value.Blob{0x0a, 0xff}, "X'0AFF'"},
		{"null", value.Null{}, "NULL"},
		{"missing", nil, "NULL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Literal(tc.in))
		})
	}
}
