package value

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

// Kind identifies the storage class of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

var kindNames = [...]string{
	KindNull:    "NULL",
	KindInteger: "INTEGER",
	KindFloat:   "REAL",
	KindText:    "TEXT",
	KindBlob:    "BLOB",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is a sealed interface over the engine's native column types.
// Only Null, Integer, Float, Text, and Blob implement it.
type Value interface {
	Kind() Kind
	String() string
	value() // Sealed
}

// Null is the SQL NULL.
type Null struct{}

func (Null) value()         {}
func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "NULL" }

// Integer is a 64-bit signed integer cell.
type Integer int64

func (Integer) value()           {}
func (Integer) Kind() Kind       { return KindInteger }
func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }

// Float is an IEEE 754 double cell.
type Float float64

func (Float) value()           {}
func (Float) Kind() Kind       { return KindFloat }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// Text is a UTF-8 text cell.
type Text string

func (Text) value()           {}
func (Text) Kind() Kind       { return KindText }
func (v Text) String() string { return string(v) }

// Blob is a raw byte cell.
type Blob []byte

func (Blob) value()           {}
func (Blob) Kind() Kind       { return KindBlob }
func (v Blob) String() string { return "x'" + hex.EncodeToString(v) + "'" }

// FromDriver converts a value produced by the sqlite3 driver into a Value.
//
// Only the five storage classes are accepted. The driver's bool and
// time.Time are lossy renderings of the stored value and are rejected.
func FromDriver(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Integer(val), nil
	case int:
		return Integer(val), nil
	case float64:
		return Float(val), nil
	case string:
		return Text(val), nil
	case []byte:
		// database/sql already copied the driver buffer for *any destinations.
		return Blob(val), nil
	default:
		return nil, fmt.Errorf("unsupported driver value type: %T", v)
	}
}

// Equal reports whether two values have the same kind and content.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Blob:
		return string(av) == string(b.(Blob))
	default:
		return a == b
	}
}
