package store

import (
	"context"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
	"github.com/blackraven36/SF-Sqlite/internal/querysql"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// CreateTable creates a table with the given columns in order.
func (c *Connection) CreateTable(ctx context.Context, name string, columns []queryir.ColumnType) error {
	if err := c.requireConnected("create_table"); err != nil {
		return err
	}
	query, err := querysql.CreateTable(name, columns)
	if err != nil {
		return queryFail("create_table", "", err)
	}

	affinities := make([]string, len(columns))
	for i, col := range columns {
		affinities[i] = col.Name + ":" + string(col.Affinity())
	}
	c.logger.Debug("creating table", "table", name, "affinity", affinities)

	return c.execute(ctx, "create_table", query)
}

// DropTable drops the named table.
func (c *Connection) DropTable(ctx context.Context, name string) error {
	if err := c.requireConnected("drop_table"); err != nil {
		return err
	}
	query, err := querysql.DropTable(name)
	if err != nil {
		return queryFail("drop_table", "", err)
	}
	return c.execute(ctx, "drop_table", query)
}

// InsertValues inserts one row positionally. Each value must already be a
// quoted SQL literal; nothing is escaped.
func (c *Connection) InsertValues(ctx context.Context, table string, values []string) error {
	if err := c.requireConnected("insert_values"); err != nil {
		return err
	}
	query, err := querysql.InsertValues(table, values)
	if err != nil {
		return queryFail("insert_values", "", err)
	}
	return c.execute(ctx, "insert_values", query)
}

// InsertRecord inserts one row from column/literal pairs.
func (c *Connection) InsertRecord(ctx context.Context, table string, record []queryir.ColumnData) error {
	if err := c.requireConnected("insert_record"); err != nil {
		return err
	}
	query, err := querysql.InsertRecord(table, record)
	if err != nil {
		return queryFail("insert_record", "", err)
	}
	return c.execute(ctx, "insert_record", query)
}

// GetRecords returns every row of table (SELECT *).
func (c *Connection) GetRecords(ctx context.Context, table string) ([]value.Row, error) {
	if err := c.requireConnected("get_records"); err != nil {
		return nil, err
	}
	query, err := querysql.SelectAll(table)
	if err != nil {
		return nil, queryFail("get_records", "", err)
	}
	return c.rows(ctx, "get_records", query)
}

// GetRecordsColumns returns the given columns of every row of table.
func (c *Connection) GetRecordsColumns(ctx context.Context, table string, columns []string) ([]value.Row, error) {
	if err := c.requireConnected("get_records"); err != nil {
		return nil, err
	}
	query, err := querysql.SelectColumns(table, columns)
	if err != nil {
		return nil, queryFail("get_records", "", err)
	}
	return c.rows(ctx, "get_records", query)
}

// GetRecordsWhere returns the given columns of the rows matching every
// column = literal pair in where.
func (c *Connection) GetRecordsWhere(ctx context.Context, table string, columns []string, where []queryir.ColumnData) ([]value.Row, error) {
	if err := c.requireConnected("get_records"); err != nil {
		return nil, err
	}
	query, err := querysql.SelectWhere(table, columns, where)
	if err != nil {
		return nil, queryFail("get_records", "", err)
	}
	return c.rows(ctx, "get_records", query)
}

// TableExists reports whether a table with the given name exists.
func (c *Connection) TableExists(ctx context.Context, table string) (bool, error) {
	if err := c.requireConnected("table_exists"); err != nil {
		return false, err
	}
	query, err := querysql.TableExistsProbe(table)
	if err != nil {
		return false, queryFail("table_exists", "", err)
	}
	n, err := c.ScalarInt(ctx, query)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Connection) rows(ctx context.Context, op, query string) ([]value.Row, error) {
	rs, err := c.query(ctx, op, query)
	if err != nil {
		return nil, err
	}
	return rs.Rows, nil
}
