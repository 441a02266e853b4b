package value

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrTypeMismatch is returned when a cell cannot be decoded into the
// requested scalar type.
var ErrTypeMismatch = errors.New("scalar type mismatch")

// AsInteger decodes an INTEGER cell.
func AsInteger(v Value) (int64, error) {
	n, ok := v.(Integer)
	if !ok {
		return 0, mismatch("integer", v)
	}
	return int64(n), nil
}

// AsChar decodes a TEXT cell holding exactly one character.
func AsChar(v Value) (rune, error) {
	s, ok := v.(Text)
	if !ok {
		return 0, mismatch("char", v)
	}
	if utf8.RuneCountInString(string(s)) != 1 {
		return 0, fmt.Errorf("%w: want a single character, got %d", ErrTypeMismatch, utf8.RuneCountInString(string(s)))
	}
	r, _ := utf8.DecodeRuneInString(string(s))
	return r, nil
}

// AsText decodes a TEXT cell.
func AsText(v Value) (string, error) {
	s, ok := v.(Text)
	if !ok {
		return "", mismatch("text", v)
	}
	return string(s), nil
}

func mismatch(want string, v Value) error {
	if v == nil {
		return fmt.Errorf("%w: cannot decode %s from missing value", ErrTypeMismatch, want)
	}
	return fmt.Errorf("%w: cannot decode %s from %s column", ErrTypeMismatch, want, v.Kind())
}
