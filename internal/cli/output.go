package cli

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/blackraven36/SF-Sqlite/internal/store"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The database reported a failure, or a script expectation failed
	ExitCommandError = 2 // Bad flags, unreadable files, or a database that cannot be opened
)

// ExitError carries the process exit code for a command error.
type ExitError struct {
	Code    int // ExitFailure or ExitCommandError
	Message string
	Err     error // optional cause
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not
// an ExitError map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse. Code is a store result code
// such as QUERY_FAIL, or USAGE for command errors.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// CodeUsage is the CLIError code for errors raised before the database is
// touched.
const CodeUsage = "USAGE"

// TableData is the JSON form of a query result.
type TableData struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Table outputs a query result. Text mode prints an aligned table followed
// by a row count.
func (f *OutputFormatter) Table(columns []string, rows []value.Row) error {
	if f.Format == "json" {
		return f.Success(tableData(columns, rows))
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	if len(columns) > 0 {
		for i, col := range columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, col)
		}
		fmt.Fprintln(tw)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell.Value.String())
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(f.Writer, "(%d %s)\n", len(rows), plural(len(rows), "row", "rows"))
	return nil
}

// StoreError reports a failed store operation and returns the matching
// ExitError.
func (f *OutputFormatter) StoreError(message string, err error) error {
	var details any
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		d := map[string]string{"op": storeErr.Op}
		if storeErr.Query != "" {
			d["query"] = storeErr.Query
		}
		details = d
	}
	_ = f.Error(string(store.CodeOf(err)), err.Error(), details)
	return WrapExitError(ExitFailure, message, err)
}

// UsageError reports a command error and returns the matching ExitError.
func (f *OutputFormatter) UsageError(message string, err error) error {
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(CodeUsage, text, nil)
	return WrapExitError(ExitCommandError, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled. It writes
// to ErrWriter so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func tableData(columns []string, rows []value.Row) TableData {
	data := TableData{Columns: columns, Rows: make([][]any, len(rows))}
	if data.Columns == nil {
		data.Columns = []string{}
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = jsonCell(cell.Value)
		}
		data.Rows[i] = cells
	}
	return data
}

// jsonCell maps a Value onto encoding/json types. Blobs become hex and
// non-finite reals become null.
func jsonCell(v value.Value) any {
	switch x := v.(type) {
	case value.Integer:
		return int64(x)
	case value.Float:
		if math.IsInf(float64(x), 0) || math.IsNaN(float64(x)) {
			return nil
		}
		return float64(x)
	case value.Text:
		return string(x)
	case value.Blob:
		return hex.EncodeToString(x)
	default:
		return nil
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
