package queryir

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// Parameter is a typed value bound to a {i} placeholder. Its index is its
// position in the slice passed to substitution.
type Parameter struct {
	Value value.Value
}

// Int creates an INTEGER parameter.
func Int(n int64) Parameter { return Parameter{Value: value.Integer(n)} }

// Float creates a REAL parameter.
func Float(f float64) Parameter { return Parameter{Value: value.Float(f)} }

// Text creates a TEXT parameter.
func Text(s string) Parameter { return Parameter{Value: value.Text(s)} }

// Blob creates a BLOB parameter.
func Blob(b []byte) Parameter { return Parameter{Value: value.Blob(b)} }

// Null creates a NULL parameter.
func Null() Parameter { return Parameter{Value: value.Null{}} }

// ParseParameter parses a command-line parameter.
//
// Recognized forms:
//
//	int:42     INTEGER
//	float:1.5  REAL
//	text:abc   TEXT (use this to pass a literal "null" or a prefix)
//	blob:0aff  BLOB from hex
//	null       NULL
//
// Anything else is TEXT as written.
func ParseParameter(s string) (Parameter, error) {
	kind, rest, found := strings.Cut(s, ":")
	if !found {
		if s == "null" {
			return Null(), nil
		}
		return Text(s), nil
	}

	switch kind {
	case "int":
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Parameter{}, fmt.Errorf("parse int parameter %q: %w", rest, err)
		}
		return Int(n), nil
	case "float":
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Parameter{}, fmt.Errorf("parse float parameter %q: %w", rest, err)
		}
		return Float(f), nil
	case "text":
		return Text(rest), nil
	case "blob":
		b, err := hex.DecodeString(rest)
		if err != nil {
			return Parameter{}, fmt.Errorf("parse blob parameter %q: %w", rest, err)
		}
		return Blob(b), nil
	default:
		return Text(s), nil
	}
}

// ParseParameters parses each string with ParseParameter.
func ParseParameters(raw []string) ([]Parameter, error) {
	params := make([]Parameter, 0, len(raw))
	for i, s := range raw {
		p, err := ParseParameter(s)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		params = append(params, p)
	}
	return params, nil
}

// ParameterFromAny converts a scalar decoded from YAML or CUE.
func ParameterFromAny(v any) (Parameter, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return Parameter{}, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(int64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return Text(val), nil
	case bool:
		if val {
			return Int(1), nil
		}
		return Int(0), nil
	default:
		return Parameter{}, fmt.Errorf("unsupported parameter type: %T", v)
	}
}
