package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackraven36/SF-Sqlite/internal/store"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]int{"count": 2}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"count": float64(2)}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("QUERY_FAIL", "no such table: Missing", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "QUERY_FAIL", resp.Error.Code)
	assert.Equal(t, "no such table: Missing", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("QUERY_FAIL", "boom", map[string]string{"op": "query"}))
	assert.Equal(t, "Error [QUERY_FAIL]: boom\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("QUERY_FAIL", "boom", map[string]string{"op": "query"}))
	assert.Contains(t, buf.String(), "Details: map[op:query]")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: tt.verbose}

			formatter.VerboseLog("connected to %s", "app.db")

			assert.Empty(t, out.String(), "verbose logs never go to the result stream")
			if tt.wantLog {
				assert.Equal(t, "connected to app.db\n", errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestOutputFormatter_TableText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	rows := []value.Row{
		{{Name: "ID", Value: value.Integer(1)}, {Name: "Name", Value: value.Text("Ada")}},
		{{Name: "ID", Value: value.Integer(20)}, {Name: "Name", Value: value.Null{}}},
	}
	require.NoError(t, formatter.Table([]string{"ID", "Name"}, rows))

	assert.Equal(t, "ID  Name\n1   Ada\n20  NULL\n(2 rows)\n", buf.String())
}

func TestOutputFormatter_TableJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	rows := []value.Row{{
		{Name: "i", Value: value.Integer(1)},
		{Name: "f", Value: value.Float(math.Inf(1))},
		{Name: "b", Value: value.Blob{0xde, 0xad}},
		{Name: "n", Value: value.Null{}},
	}}
	require.NoError(t, formatter.Table([]string{"i", "f", "b", "n"}, rows))

	assert.JSONEq(t,
		`{"status":"ok","data":{"columns":["i","f","b","n"],"rows":[[1,null,"dead",null]]}}`,
		buf.String())
}

func TestOutputFormatter_StoreError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	cause := &store.Error{Code: store.CodeQueryFail, Op: "query", Query: "SELECT x", Err: errors.New("no such column: x")}
	err := formatter.StoreError("query failed", cause)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, store.ErrQueryFail)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "QUERY_FAIL", resp.Error.Code)
	assert.Equal(t, map[string]any{"op": "query", "query": "SELECT x"}, resp.Error.Details)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "wrapped", errors.New("cause"))))
}
