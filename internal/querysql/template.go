package querysql

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
)

var (
	// ErrUnboundPlaceholder is returned when a template references {i}
	// and no parameter i was supplied.
	ErrUnboundPlaceholder = errors.New("placeholder has no parameter")

	// ErrUnusedParameter is returned when a supplied parameter is never
	// referenced by the template.
	ErrUnusedParameter = errors.New("parameter is never referenced")
)

// Substitute resolves {i} placeholders in template with the literal form
// of params[i].
//
// The template is scanned once from left to right and literals are
// written to the output without being rescanned, so a parameter whose text
// contains "{1}" is never mistaken for a placeholder. A placeholder may be
// referenced more than once. Braces that do not enclose a decimal index
// are copied unchanged.
//
// Every index referenced must have a parameter and every parameter must be
// referenced; otherwise Substitute fails without producing SQL.
func Substitute(template string, params []queryir.Parameter) (string, error) {
	var b strings.Builder
	b.Grow(len(template))
	used := make([]bool, len(params))

	for i := 0; i < len(template); {
		idx, end, ok := placeholderAt(template, i)
		if !ok {
			b.WriteByte(template[i])
			i++
			continue
		}
		if idx >= len(params) {
			return "", fmt.Errorf("%w: {%d} with %d parameter(s)", ErrUnboundPlaceholder, idx, len(params))
		}
		b.WriteString(Literal(params[idx].Value))
		used[idx] = true
		i = end
	}

	for idx, ok := range used {
		if !ok {
			return "", fmt.Errorf("%w: parameter %d", ErrUnusedParameter, idx)
		}
	}

	return b.String(), nil
}

// Placeholders returns the distinct indices referenced by template in
// ascending order.
func Placeholders(template string) []int {
	seen := map[int]bool{}
	var out []int
	for i := 0; i < len(template); {
		idx, end, ok := placeholderAt(template, i)
		if !ok {
			i++
			continue
		}
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
		i = end
	}
	slices.Sort(out)
	return out
}

// placeholderAt reports whether a {digits} token starts at s[i] and, if so,
// its index and the offset just past the closing brace.
func placeholderAt(s string, i int) (idx, end int, ok bool) {
	if s[i] != '{' {
		return 0, 0, false
	}
	j := i + 1
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i+1 || j >= len(s) || s[j] != '}' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(s[i+1 : j])
	if err != nil {
		// Too large for int, so no parameter list can bind it.
		n = math.MaxInt
	}
	return n, j + 1, true
}
