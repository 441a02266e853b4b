// Package querysql assembles SQLite statement text from queryir
// descriptors and resolves {i} query templates.
//
// Every function here is pure: it never touches the engine. Table and
// column names are emitted as given, and ColumnData literals are copied
// verbatim. Only template substitution escapes values (see Literal).
package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
)

// ErrNoColumns is returned when a statement needs at least one column.
var ErrNoColumns = errors.New("at least one column is required")

// CreateTable builds: CREATE TABLE <name> ( c1 t1, c2 t2 )
// Columns appear in input order.
func CreateTable(name string, columns []queryir.ColumnType) (string, error) {
	if err := checkTable(name); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("create table %s: %w", name, ErrNoColumns)
	}

	parts := make([]string, len(columns))
	for i, col := range columns {
		if err := col.Validate(); err != nil {
			return "", fmt.Errorf("create table %s: %w", name, err)
		}
		parts[i] = col.Name + " " + col.Type
	}

	return fmt.Sprintf("CREATE TABLE %s ( %s )", name, strings.Join(parts, ", ")), nil
}

// DropTable builds: DROP TABLE <name>
func DropTable(name string) (string, error) {
	if err := checkTable(name); err != nil {
		return "", err
	}
	return "DROP TABLE " + name, nil
}

// InsertValues builds a positional insert: INSERT INTO <name> VALUES ( v1, v2 )
// The caller is responsible for quoting each literal.
func InsertValues(name string, values []string) (string, error) {
	if err := checkTable(name); err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("insert into %s: %w", name, ErrNoColumns)
	}
	return fmt.Sprintf("INSERT INTO %s VALUES ( %s )", name, strings.Join(values, ", ")), nil
}

// InsertRecord builds a keyed insert: INSERT INTO <name> (c1, c2) VALUES (v1, v2)
func InsertRecord(name string, record []queryir.ColumnData) (string, error) {
	if err := checkTable(name); err != nil {
		return "", err
	}
	if len(record) == 0 {
		return "", fmt.Errorf("insert into %s: %w", name, ErrNoColumns)
	}

	cols := make([]string, len(record))
	vals := make([]string, len(record))
	for i, pair := range record {
		if err := pair.Validate(); err != nil {
			return "", fmt.Errorf("insert into %s: %w", name, err)
		}
		cols[i] = pair.Name
		vals[i] = pair.Value
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name,
		strings.Join(cols, ", "),
		strings.Join(vals, ", ")), nil
}

// SelectAll builds: SELECT * FROM <name>
func SelectAll(name string) (string, error) {
	if err := checkTable(name); err != nil {
		return "", err
	}
	return "SELECT * FROM " + name, nil
}

// SelectColumns builds: SELECT c1, c2 FROM <name>
func SelectColumns(name string, columns []string) (string, error) {
	return SelectWhere(name, columns, nil)
}

// SelectWhere builds: SELECT c1, c2 FROM <name> WHERE k1 = v1 AND k2 = v2
// Filters are conjoined in input order. An empty filter list emits no
// WHERE clause.
func SelectWhere(name string, columns []string, where []queryir.ColumnData) (string, error) {
	if err := checkTable(name); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("select from %s: %w", name, ErrNoColumns)
	}
	for _, col := range columns {
		if strings.TrimSpace(col) == "" {
			return "", fmt.Errorf("select from %s: column: %w", name, queryir.ErrEmptyName)
		}
	}

	sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), name)
	if len(where) == 0 {
		return sql, nil
	}

	conds := make([]string, len(where))
	for i, pair := range where {
		if err := pair.Validate(); err != nil {
			return "", fmt.Errorf("select from %s: where: %w", name, err)
		}
		conds[i] = pair.Name + " = " + pair.Value
	}
	return sql + " WHERE " + strings.Join(conds, " AND "), nil
}

// TableExistsProbe builds a count query against sqlite_master for a table
// with the given name. The name is rendered as an escaped text literal.
func TableExistsProbe(name string) (string, error) {
	if err := checkTable(name); err != nil {
		return "", err
	}
	return "SELECT count(*) FROM sqlite_master WHERE type='table' AND name=" + quoteText(name), nil
}

func checkTable(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("table: %w", queryir.ErrEmptyName)
	}
	return nil
}
