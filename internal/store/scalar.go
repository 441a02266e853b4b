package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

var (
	// ErrNoRows is the cause when a scalar query produces no rows.
	ErrNoRows = errors.New("scalar query returned no rows")

	// ErrTooManyRows is the cause when a scalar query produces more than one row.
	ErrTooManyRows = errors.New("scalar query returned more than one row")

	// ErrNotSingleColumn is the cause when a scalar query does not produce exactly one column.
	ErrNotSingleColumn = errors.New("scalar query must return exactly one column")
)

// ScalarInt runs a query expected to yield one row with one INTEGER
// column, e.g. SELECT count(*) FROM Example.
func (c *Connection) ScalarInt(ctx context.Context, query string) (int64, error) {
	v, err := c.scalar(ctx, "scalar_int", query)
	if err != nil {
		return 0, err
	}
	n, err := value.AsInteger(v)
	if err != nil {
		return 0, queryFail("scalar_int", query, err)
	}
	return n, nil
}

// ScalarChar runs a query expected to yield one row with one TEXT column
// holding a single character.
func (c *Connection) ScalarChar(ctx context.Context, query string) (rune, error) {
	v, err := c.scalar(ctx, "scalar_char", query)
	if err != nil {
		return 0, err
	}
	r, err := value.AsChar(v)
	if err != nil {
		return 0, queryFail("scalar_char", query, err)
	}
	return r, nil
}

// ScalarText runs a query expected to yield one row with one TEXT column,
// e.g. SELECT Name FROM Example LIMIT 1.
func (c *Connection) ScalarText(ctx context.Context, query string) (string, error) {
	v, err := c.scalar(ctx, "scalar_text", query)
	if err != nil {
		return "", err
	}
	s, err := value.AsText(v)
	if err != nil {
		return "", queryFail("scalar_text", query, err)
	}
	return s, nil
}

// scalar returns the single cell of a one-row, one-column result.
func (c *Connection) scalar(ctx context.Context, op, query string) (value.Value, error) {
	rs, err := c.query(ctx, op, query)
	if err != nil {
		return nil, err
	}

	if len(rs.Columns) != 1 {
		return nil, queryFail(op, query, fmt.Errorf("%w: got %d", ErrNotSingleColumn, len(rs.Columns)))
	}
	switch len(rs.Rows) {
	case 0:
		return nil, queryFail(op, query, ErrNoRows)
	case 1:
		return rs.Rows[0][0].Value, nil
	default:
		return nil, queryFail(op, query, fmt.Errorf("%w: got %d", ErrTooManyRows, len(rs.Rows)))
	}
}
