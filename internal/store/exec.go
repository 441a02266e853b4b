package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
	"github.com/blackraven36/SF-Sqlite/internal/querysql"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// ResultSet is a fully drained query result. Columns is populated even
// when Rows is empty.
type ResultSet struct {
	Columns []string
	Rows    []value.Row
}

// Execute runs a statement that produces no rows (DDL or DML).
func (c *Connection) Execute(ctx context.Context, query string) error {
	return c.execute(ctx, "execute", query)
}

// Query runs a row-producing statement and returns every row. An empty
// result is a non-nil empty slice.
func (c *Connection) Query(ctx context.Context, query string) ([]value.Row, error) {
	rs, err := c.query(ctx, "query", query)
	if err != nil {
		return nil, err
	}
	return rs.Rows, nil
}

// QueryParams resolves the {i} placeholders in template with params and
// runs the result as Query does. A placeholder/parameter mismatch is
// reported as QUERY_FAIL before the engine is called.
func (c *Connection) QueryParams(ctx context.Context, template string, params []queryir.Parameter) ([]value.Row, error) {
	rs, err := c.QueryParamsResult(ctx, template, params)
	if err != nil {
		return nil, err
	}
	return rs.Rows, nil
}

// QueryParamsResult is QueryParams returning the column names with the
// rows, so an empty result still carries its header.
func (c *Connection) QueryParamsResult(ctx context.Context, template string, params []queryir.Parameter) (*ResultSet, error) {
	if err := c.requireConnected("query_params"); err != nil {
		return nil, err
	}

	query, err := querysql.Substitute(template, params)
	if err != nil {
		return nil, queryFail("query_params", template, err)
	}
	return c.query(ctx, "query_params", query)
}

// QueryResult runs a row-producing statement and returns the column names
// together with the rows.
func (c *Connection) QueryResult(ctx context.Context, query string) (*ResultSet, error) {
	return c.query(ctx, "query_result", query)
}

// ExecuteCount runs a row-producing statement and returns how many rows it
// produced. The query is not rewritten to COUNT(*).
func (c *Connection) ExecuteCount(ctx context.Context, query string) (int, error) {
	rs, err := c.query(ctx, "execute_count", query)
	if err != nil {
		return 0, err
	}
	return len(rs.Rows), nil
}

// execute prepares and runs query on the pinned connection.
func (c *Connection) execute(ctx context.Context, op, query string) error {
	if err := c.requireConnected(op); err != nil {
		return err
	}
	if err := querysql.SingleStatement(query); err != nil {
		return queryFail(op, query, err)
	}

	c.logger.Debug("executing statement", "op", op, "sql", query)

	stmt, err := c.conn.PrepareContext(ctx, query)
	if err != nil {
		return queryFail(op, query, fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx); err != nil {
		return queryFail(op, query, fmt.Errorf("exec: %w", err))
	}
	return nil
}

// driverConvertedTypes are the declared column types for which go-sqlite3
// hands back bool or time.Time instead of the stored value. Matching is on
// the lowercased declared type, as the driver does it.
var driverConvertedTypes = map[string]bool{
	"boolean":   true,
	"date":      true,
	"datetime":  true,
	"timestamp": true,
}

// convertedColumnsError reports result columns whose values the driver
// would rewrite. It is raised before the first row is stepped.
type convertedColumnsError struct {
	columns   []string
	converted []string
}

func (e *convertedColumnsError) Error() string {
	return fmt.Sprintf("driver converts values of declared-type columns %s", strings.Join(e.converted, ", "))
}

// query drains query into a ResultSet. When a result column carries a
// declared type the driver converts, the statement is run again as an
// expression projection so every cell keeps the engine's storage class.
// A statement that cannot be projected (it is not a SELECT) fails instead
// of returning converted values.
func (c *Connection) query(ctx context.Context, op, query string) (*ResultSet, error) {
	if err := c.requireConnected(op); err != nil {
		return nil, err
	}
	if err := querysql.SingleStatement(query); err != nil {
		return nil, queryFail(op, query, err)
	}

	c.logger.Debug("executing query", "op", op, "sql", query)

	rs, err := c.drain(ctx, query)
	var conv *convertedColumnsError
	if errors.As(err, &conv) {
		projected := querysql.ExpressionProjection(query, conv.columns)
		c.logger.Debug("projecting converted columns", "op", op, "columns", conv.converted, "sql", projected)
		if rs, err = c.drain(ctx, projected); err != nil {
			err = fmt.Errorf("%w: project as expressions: %w", conv, err)
		}
	}
	if err != nil {
		return nil, queryFail(op, query, err)
	}

	c.logger.Debug("query drained", "op", op, "rows", len(rs.Rows))
	return rs, nil
}

// drain prepares sqlText, steps its cursor to the end, and converts every
// cell to a value.Value. The statement and cursor are closed on every
// return path.
func (c *Connection) drain(ctx context.Context, sqlText string) (*ResultSet, error) {
	stmt, err := c.conn.PrepareContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}
	var converted []string
	for i, ct := range types {
		if declared := ct.DatabaseTypeName(); driverConvertedTypes[strings.ToLower(declared)] {
			converted = append(converted, fmt.Sprintf("%s (%s)", columns[i], declared))
		}
	}
	if len(converted) > 0 {
		return nil, &convertedColumnsError{columns: columns, converted: converted}
	}

	raw := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}

	result := []value.Row{}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(result), err)
		}

		row := make(value.Row, len(columns))
		for i, name := range columns {
			v, err := value.FromDriver(raw[i])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", len(result), name, err)
			}
			row[i] = value.Cell{Name: name, Value: v}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return &ResultSet{Columns: columns, Rows: result}, nil
}
