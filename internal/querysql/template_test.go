package querysql

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
)

func TestSubstitute(t *testing.T) {
	sql, err := Substitute(
		"SELECT ID, NAME FROM Example WHERE NAME = {0}",
		[]queryir.Parameter{queryir.Text("Serguei Fedorov")},
	)
	require.NoError(t, err)
	assert.Equal(t, "SELECT ID, NAME FROM Example WHERE NAME = 'Serguei Fedorov'", sql)
}

func TestSubstitute_MixedTypes(t *testing.T) {
	sql, err := Substitute(
		"INSERT INTO t VALUES ({0}, {1}, {2}, {3})",
		[]queryir.Parameter{queryir.Int(7), queryir.Float(0.5), queryir.Null(), queryir.Blob([]byte{1})},
	)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t VALUES (7, 0.5, NULL, X'01')", sql)
}

func TestSubstitute_DoesNotRescanInsertedLiterals(t *testing.T) {
	sql, err := Substitute("a = {0} AND b = {1}", []queryir.Parameter{
		queryir.Text("{1}"),
		queryir.Text("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, "a = '{1}' AND b = 'x'", sql)
}

func TestSubstitute_RepeatedPlaceholder(t *testing.T) {
	sql, err := Substitute("a = {0} OR b = {0}", []queryir.Parameter{queryir.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, "a = 1 OR b = 1", sql)
}

func TestSubstitute_NonTokenBraces(t *testing.T) {
	tmpl := "SELECT '{}' , '{x}', '{1' FROM t WHERE a = {0}"
	sql, err := Substitute(tmpl, []queryir.Parameter{queryir.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, "SELECT '{}' , '{x}', '{1' FROM t WHERE a = 2", sql)
}

func TestSubstitute_UnboundPlaceholder(t *testing.T) {
	_, err := Substitute("a = {0} AND b = {1}", []queryir.Parameter{queryir.Int(1)})
	assert.ErrorIs(t, err, ErrUnboundPlaceholder)

	_, err = Substitute("a = {0}", nil)
	assert.ErrorIs(t, err, ErrUnboundPlaceholder)

	_, err = Substitute("a = {99999999999999999999999}", []queryir.Parameter{queryir.Int(1)})
	assert.ErrorIs(t, err, ErrUnboundPlaceholder)
}

func TestSubstitute_UnusedParameter(t *testing.T) {
	_, err := Substitute("a = {0}", []queryir.Parameter{queryir.Int(1), queryir.Int(2)})
	assert.ErrorIs(t, err, ErrUnusedParameter)

	_, err = Substitute("a = {1}", []queryir.Parameter{queryir.Int(1), queryir.Int(2)})
	assert.ErrorIs(t, err, ErrUnusedParameter)

	_, err = Substitute("SELECT 1", []queryir.Parameter{queryir.Int(1)})
	assert.ErrorIs(t, err, ErrUnusedParameter)
}

func TestSubstitute_IdempotentOnResolvedText(t *testing.T) {
	resolved, err := Substitute("SELECT * FROM t WHERE a = {0}", []queryir.Parameter{queryir.Text("v")})
	require.NoError(t, err)

	again, err := Substitute(resolved, nil)
	require.NoError(t, err)
	assert.Equal(t, resolved, again)
}

func TestSubstitute_OrderIndependent(t *testing.T) {
	params := []queryir.Parameter{queryir.Int(10), queryir.Text("b"), queryir.Int(30)}
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, perm := range perms {
		t.Run(fmt.Sprint(perm), func(t *testing.T) {
			parts := make([]string, len(perm))
			want := make([]string, len(perm))
			for pos, idx := range perm {
				parts[pos] = fmt.Sprintf("c%d = {%d}", idx, idx)
				want[pos] = fmt.Sprintf("c%d = %s", idx, Literal(params[idx].Value))
			}

			sql, err := Substitute(strings.Join(parts, " AND "), params)
			require.NoError(t, err)
			assert.Equal(t, strings.Join(want, " AND "), sql)
		})
	}
}

func TestSubstitute_CountMismatchAlwaysFails(t *testing.T) {
	for placeholders := 0; placeholders <= 3; placeholders++ {
		for supplied := 0; supplied <= 3; supplied++ {
			if placeholders == supplied {
				continue
			}
			t.Run(fmt.Sprintf("%d placeholders %d params", placeholders, supplied), func(t *testing.T) {
				tokens := make([]string, placeholders)
				for i := range tokens {
					tokens[i] = fmt.Sprintf("{%d}", i)
				}
				params := make([]queryir.Parameter, supplied)
				for i := range params {
					params[i] = queryir.Int(int64(i))
				}

				_, err := Substitute("SELECT "+strings.Join(tokens, ", "), params)
				assert.Error(t, err)
			})
		}
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, Placeholders("{2} {0} {1} {0}"))
	assert.Nil(t, Placeholders("no tokens {x}"))
}
