package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
	"github.com/blackraven36/SF-Sqlite/internal/querysql"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

func seedExample(t *testing.T, c *Connection) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.Execute(ctx, "CREATE TABLE Example ( ID INTEGER PRIMARY KEY, Name TEXT, Score REAL, Data BLOB )"))
	require.NoError(t, c.Execute(ctx, "INSERT INTO Example VALUES ( 1, 'Ada', 9.5, x'0aff' )"))
	require.NoError(t, c.Execute(ctx, "INSERT INTO Example VALUES ( 2, 'Grace', NULL, NULL )"))
}

func TestExecute(t *testing.T) {
	c := newTestConnection(t)
	ctx := context.Background()

	require.NoError(t, c.Execute(ctx, "CREATE TABLE t ( a INTEGER )"))
	require.NoError(t, c.Execute(ctx, "INSERT INTO t (a) VALUES (1)"))

	n, err := c.ExecuteCount(ctx, "SELECT * FROM t")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExecute_Failures(t *testing.T) {
	c := newTestConnection(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		query string
	}{
		{"syntax error", "CREATE TABL t"},
		{"missing table", "INSERT INTO missing VALUES (1)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Execute(ctx, tc.query)
			require.Error(t, err)
			assert.Equal(t, CodeQueryFail, CodeOf(err))
			assert.True(t, c.Connected(), "query failures never change connection state")
		})
	}
}

func TestExecute_ConstraintViolation(t *testing.T) {
	c := newTestConnection(t)
	ctx := context.Background()

	require.NoError(t, c.Execute(ctx, "CREATE TABLE t ( a INTEGER UNIQUE )"))
	require.NoError(t, c.Execute(ctx, "INSERT INTO t VALUES (1)"))

	err := c.Execute(ctx, "INSERT INTO t VALUES (1)")
	assert.True(t, IsQueryFail(err))
}

func TestQuery_MaterializesTypedCells(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)

	rows, err := c.Query(context.Background(), "SELECT ID, Name, Score, Data FROM Example ORDER BY ID")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	want := []value.Row{
		{
			{Name: "ID", Value: value.Integer(1)},
			{Name: "Name", Value: value.Text("Ada")},
			{Name: "Score", Value: value.Float(9.5)},
			{Name: "Data", Value: value.Blob{0x0a, 0xff}},
		},
		{
			{Name: "ID", Value: value.Integer(2)},
			{Name: "Name", Value: value.Text("Grace")},
			{Name: "Score", Value: value.Null{}},
			{Name: "Data", Value: value.Null{}},
		},
	}
	for i := range want {
		assert.True(t, want[i].Equal(rows[i]), "row %d: want %v, got %v", i, want[i], rows[i])
	}
}

func TestQuery_PreservesColumnOrder(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)

	rows, err := c.Query(context.Background(), "SELECT Name, ID, Name AS Again FROM Example WHERE ID = 1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Name", "ID", "Again"}, rows[0].Columns())
}

func TestQuery_EmptyResult(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)

	rows, err := c.Query(context.Background(), "SELECT * FROM Example WHERE ID = 99")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQuery_Failure(t *testing.T) {
	c := newTestConnection(t)

	rows, err := c.Query(context.Background(), "SELECT * FROM missing")
	assert.Nil(t, rows)
	assert.True(t, IsQueryFail(err))
}

func TestQueryResult_ColumnsWithoutRows(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)

	rs, err := c.QueryResult(context.Background(), "SELECT ID, Name FROM Example WHERE 0")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Name"}, rs.Columns)
	assert.Empty(t, rs.Rows)
}

func TestQueryParams(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)
	ctx := context.Background()

	rows, err := c.QueryParams(ctx, "SELECT ID, Name FROM Example WHERE Name = {0}", []queryir.Parameter{queryir.Text("Grace")})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	id, _ := rows[0].Get("ID")
	assert.Equal(t, value.Integer(2), id)
}

func TestQueryParamsResult_ColumnsWithoutRows(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)
	ctx := context.Background()

	rs, err := c.QueryParamsResult(ctx, "SELECT ID, Name FROM Example WHERE ID = {0}", []queryir.Parameter{queryir.Int(99)})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Name"}, rs.Columns)
	assert.Empty(t, rs.Rows)
}

func TestQueryParams_EscapesText(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)
	ctx := context.Background()

	rows, err := c.QueryParams(ctx, "SELECT ID FROM Example WHERE Name = {0}",
		[]queryir.Parameter{queryir.Text("x' OR '1'='1")})
	require.NoError(t, err)
	assert.Empty(t, rows, "parameter text is a literal, not SQL")

	n, err := c.ScalarInt(ctx, "SELECT count(*) FROM Example")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestQueryParams_MismatchIsQueryFail(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)
	ctx := context.Background()

	_, err := c.QueryParams(ctx, "SELECT * FROM Example WHERE ID = {0} AND Name = {1}", []queryir.Parameter{queryir.Int(1)})
	require.Error(t, err)
	assert.Equal(t, CodeQueryFail, CodeOf(err))
	assert.ErrorIs(t, err, querysql.ErrUnboundPlaceholder)

	_, err = c.QueryParams(ctx, "SELECT * FROM Example", []queryir.Parameter{queryir.Int(1)})
	assert.ErrorIs(t, err, querysql.ErrUnusedParameter)
	assert.True(t, IsQueryFail(err))
}

func TestExecuteCount(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)
	ctx := context.Background()

	n, err := c.ExecuteCount(ctx, "SELECT * FROM Example")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Counts produced rows, so an aggregate counts as one row.
	n, err = c.ExecuteCount(ctx, "SELECT count(*) FROM Example")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.ExecuteCount(ctx, "SELECT * FROM Example WHERE 0")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = c.ExecuteCount(ctx, "SELECT * FROM nope")
	assert.True(t, IsQueryFail(err))
}

func TestStatementsReleasedOnEveryPath(t *testing.T) {
	c := newTestConnection(t)
	seedExample(t, c)
	ctx := context.Background()

	// A statement left open on Example would make DROP TABLE fail with
	// "database table is locked".
	_, err := c.Query(ctx, "SELECT * FROM Example")
	require.NoError(t, err)

	_, err = c.ScalarText(ctx, "SELECT Name FROM Example")
	require.Error(t, err, "two rows is not a scalar")

	_, err = c.ScalarInt(ctx, "SELECT Name FROM Example WHERE ID = 1")
	require.Error(t, err, "type mismatch")

	require.NoError(t, c.DropTable(ctx, "Example"))
}

func seedDeclaredTypes(t *testing.T, c *Connection) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.CreateTable(ctx, "Events", []queryir.ColumnType{
		{Name: "flag", Type: "BOOLEAN"},
		{Name: "day", Type: "DATE"},
		{Name: "ts", Type: "DATETIME"},
		{Name: "stamp", Type: "TIMESTAMP"},
	}))
	require.NoError(t, c.InsertRecord(ctx, "Events", []queryir.ColumnData{
		{Name: "flag", Value: "5"},
		{Name: "day", Value: "'2024-01-02'"},
		{Name: "ts", Value: "1700000000"},
		{Name: "stamp", Value: "'not a time'"},
	}))
}

func TestQuery_DeclaredTypesKeepStoredValues(t *testing.T) {
	c := newTestConnection(t)
	seedDeclaredTypes(t, c)
	ctx := context.Background()

	rows, err := c.GetRecords(ctx, "Events")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	want := value.Row{
		{Name: "flag", Value: value.Integer(5)},
		{Name: "day", Value: value.Text("2024-01-02")},
		{Name: "ts", Value: value.Integer(1700000000)},
		{Name: "stamp", Value: value.Text("not a time")},
	}
	assert.True(t, want.Equal(rows[0]), "want %v, got %v", want, rows[0])

	kinds, err := c.ScalarText(ctx, "SELECT typeof(flag) || ',' || typeof(day) || ',' || typeof(ts) FROM Events")
	require.NoError(t, err)
	assert.Equal(t, "integer,text,integer", kinds)
}

func TestScalar_DeclaredTypes(t *testing.T) {
	c := newTestConnection(t)
	seedDeclaredTypes(t, c)
	ctx := context.Background()

	flag, err := c.ScalarInt(ctx, "SELECT flag FROM Events")
	require.NoError(t, err)
	assert.Equal(t, int64(5), flag)

	ts, err := c.ScalarInt(ctx, "SELECT ts FROM Events;")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts)

	day, err := c.ScalarText(ctx, "SELECT day FROM Events")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", day)

	_, err = c.ScalarInt(ctx, "SELECT day FROM Events")
	require.Error(t, err)
	assert.Equal(t, CodeQueryFail, CodeOf(err))
	assert.ErrorIs(t, err, value.ErrTypeMismatch)
}

func TestQuery_DeclaredTypesKeepOrderAndNames(t *testing.T) {
	c := newTestConnection(t)
	ctx := context.Background()

	require.NoError(t, c.Execute(ctx, "CREATE TABLE Flags ( id INTEGER, flag BOOLEAN )"))
	require.NoError(t, c.Execute(ctx, "INSERT INTO Flags VALUES ( 1, 0 ), ( 2, 7 ), ( 3, -1 )"))

	rs, err := c.QueryResult(ctx, "SELECT flag, id AS flag FROM Flags ORDER BY id DESC")
	require.NoError(t, err)
	assert.Equal(t, []string{"flag", "flag"}, rs.Columns)
	require.Len(t, rs.Rows, 3)

	var got [][2]value.Value
	for _, r := range rs.Rows {
		got = append(got, [2]value.Value{r[0].Value, r[1].Value})
	}
	assert.Equal(t, [][2]value.Value{
		{value.Integer(-1), value.Integer(3)},
		{value.Integer(7), value.Integer(2)},
		{value.Integer(0), value.Integer(1)},
	}, got)
}

func TestQuery_DeclaredTypesThroughViewAndWith(t *testing.T) {
	c := newTestConnection(t)
	seedDeclaredTypes(t, c)
	ctx := context.Background()

	require.NoError(t, c.Execute(ctx, "CREATE VIEW EventFlags AS SELECT flag, ts FROM Events"))

	testCases := []struct {
		name  string
		query string
	}{
		{"view", "SELECT * FROM EventFlags"},
		{"with", "WITH e AS ( SELECT flag, ts FROM Events ) SELECT flag, ts FROM e"},
		{"trailing comment", "SELECT flag, ts FROM Events -- both columns"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := c.Query(ctx, tc.query)
			require.NoError(t, err)
			require.Len(t, rows, 1)

			want := value.Row{
				{Name: "flag", Value: value.Integer(5)},
				{Name: "ts", Value: value.Integer(1700000000)},
			}
			assert.True(t, want.Equal(rows[0]), "want %v, got %v", want, rows[0])
		})
	}
}

func TestMultipleStatementsAreQueryFail(t *testing.T) {
	c := newTestConnection(t)
	ctx := context.Background()

	err := c.Execute(ctx, "CREATE TABLE a ( x INTEGER ); CREATE TABLE b ( y INTEGER )")
	require.Error(t, err)
	assert.Equal(t, CodeQueryFail, CodeOf(err))
	assert.ErrorIs(t, err, querysql.ErrMultipleStatements)

	exists, err := c.TableExists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists, "nothing runs when the text holds two statements")

	_, err = c.Query(ctx, "SELECT 1; SELECT 2")
	assert.ErrorIs(t, err, querysql.ErrMultipleStatements)

	require.NoError(t, c.Execute(ctx, "CREATE TABLE a ( x INTEGER ); -- trailing comment"))
	require.NoError(t, c.Execute(ctx, `CREATE TRIGGER a_ins AFTER INSERT ON a BEGIN
		UPDATE a SET x = x + 1 WHERE rowid = new.rowid;
	END;`))
	require.NoError(t, c.Execute(ctx, "INSERT INTO a VALUES ( 1 )"))

	x, err := c.ScalarInt(ctx, "SELECT x FROM a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), x)
}
