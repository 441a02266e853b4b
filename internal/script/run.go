package script

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
	"github.com/blackraven36/SF-Sqlite/internal/store"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// Runner executes scripts.
type Runner struct {
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for step logs and the script's Connection.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner. Logs are discarded unless WithLogger is given.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: store.DiscardLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes s with a discarding logger. See Runner.Run.
func Run(ctx context.Context, s *Script) (*Result, error) {
	return NewRunner().Run(ctx, s)
}

// Run executes every step of s in order against a fresh Connection.
//
// A failing operation does not stop the script: its code is recorded and
// compared with the step's expectation. The Connection is closed when Run
// returns. The returned error is non-nil only when a step cannot be
// executed at all.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	database := s.Database
	if database == "" {
		database = DefaultDatabase
	}

	conn := store.New(database, store.WithLogger(r.logger))
	defer func() {
		if err := conn.Close(); err != nil {
			r.logger.Error("failed to close connection", "script", s.Name, "error", err)
		}
	}()

	result := NewResult()
	for i, step := range s.Steps {
		event, err := r.runStep(ctx, conn, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		event.Step = i
		result.Trace = append(result.Trace, event)

		for _, msg := range checkExpect(step, event) {
			result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, step.Op, msg))
		}

		r.logger.Info("step completed", "script", s.Name, "step", i, "op", step.Op, "code", event.Code)
	}
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, conn *store.Connection, step Step) (TraceEvent, error) {
	event := TraceEvent{Op: step.Op}
	var opErr error

	switch step.Op {
	case OpConnect:
		opErr = conn.Connect(ctx)
	case OpDisconnect:
		opErr = conn.Disconnect()
	case OpCreateTable:
		opErr = conn.CreateTable(ctx, step.Table, step.Schema)
	case OpDropTable:
		opErr = conn.DropTable(ctx, step.Table)
	case OpInsertValues:
		opErr = conn.InsertValues(ctx, step.Table, step.Values)
	case OpInsert:
		opErr = conn.InsertRecord(ctx, step.Table, step.Record)
	case OpExec:
		opErr = conn.Execute(ctx, step.SQL)
	case OpSelect:
		var rows []value.Row
		switch {
		case len(step.Where) > 0:
			columns := step.Columns
			if len(columns) == 0 {
				columns = []string{"*"}
			}
			rows, opErr = conn.GetRecordsWhere(ctx, step.Table, columns, step.Where)
		case len(step.Columns) > 0:
			rows, opErr = conn.GetRecordsColumns(ctx, step.Table, step.Columns)
		default:
			rows, opErr = conn.GetRecords(ctx, step.Table)
		}
		event.Rows = rows
	case OpQuery:
		var rows []value.Row
		if len(step.Params) > 0 {
			params, err := queryir.ParseParameters(step.Params)
			if err != nil {
				return event, err
			}
			rows, opErr = conn.QueryParams(ctx, step.SQL, params)
		} else {
			rows, opErr = conn.Query(ctx, step.SQL)
		}
		event.Rows = rows
	case OpCount:
		n, err := conn.ExecuteCount(ctx, step.SQL)
		opErr = err
		if err == nil {
			event.Count = &n
		}
	case OpScalar:
		event.Value, opErr = runScalar(ctx, conn, step)
	case OpExists:
		ok, err := conn.TableExists(ctx, step.Table)
		opErr = err
		if err == nil {
			event.Exists = &ok
		}
	default:
		return event, fmt.Errorf("unknown op %q", step.Op)
	}

	event.Code = string(store.CodeOf(opErr))
	if opErr != nil {
		r.logger.Debug("step failed", "op", step.Op, "error", opErr)
	}
	return event, nil
}

// runScalar returns the decoded scalar as a Value, or nil on failure.
func runScalar(ctx context.Context, conn *store.Connection, step Step) (value.Value, error) {
	switch step.As {
	case ScalarInt:
		n, err := conn.ScalarInt(ctx, step.SQL)
		if err != nil {
			return nil, err
		}
		return value.Integer(n), nil
	case ScalarChar:
		c, err := conn.ScalarChar(ctx, step.SQL)
		if err != nil {
			return nil, err
		}
		return value.Text(string(c)), nil
	default:
		s, err := conn.ScalarText(ctx, step.SQL)
		if err != nil {
			return nil, err
		}
		return value.Text(s), nil
	}
}

// checkExpect compares a step's trace event against its expectation and
// returns one message per mismatch.
func checkExpect(step Step, event TraceEvent) []string {
	expect := step.Expect
	wantCode := string(store.CodeOK)
	if expect != nil && expect.Code != "" {
		wantCode = expect.Code
	}

	var msgs []string
	if event.Code != wantCode {
		msgs = append(msgs, fmt.Sprintf("expected code %s, got %s", wantCode, event.Code))
	}
	if expect == nil {
		return msgs
	}

	if expect.Rows != nil {
		got := len(event.Rows)
		if event.Count != nil {
			got = *event.Count
		}
		if got != *expect.Rows {
			msgs = append(msgs, fmt.Sprintf("expected %d rows, got %d", *expect.Rows, got))
		}
	}

	if len(expect.Records) > 0 {
		msgs = append(msgs, checkRecords(expect.Records, event.Rows)...)
	}

	if expect.Value != nil {
		want, err := queryir.ParameterFromAny(expect.Value)
		switch {
		case err != nil:
			msgs = append(msgs, fmt.Sprintf("expect.value: %v", err))
		case event.Value == nil:
			msgs = append(msgs, fmt.Sprintf("expected value %s, got none", want.Value))
		case !value.Equal(want.Value, event.Value):
			msgs = append(msgs, fmt.Sprintf("expected value %s, got %s", want.Value, event.Value))
		}
	}

	if expect.Exists != nil {
		if event.Exists == nil {
			msgs = append(msgs, fmt.Sprintf("expected exists=%t, got none", *expect.Exists))
		} else if *event.Exists != *expect.Exists {
			msgs = append(msgs, fmt.Sprintf("expected exists=%t, got %t", *expect.Exists, *event.Exists))
		}
	}
	return msgs
}

func checkRecords(want []map[string]any, got []value.Row) []string {
	if len(want) > len(got) {
		return []string{fmt.Sprintf("expected at least %d records, got %d", len(want), len(got))}
	}

	var msgs []string
	for i, record := range want {
		for _, column := range slices.Sorted(maps.Keys(record)) {
			raw := record[column]
			expected, err := queryir.ParameterFromAny(raw)
			if err != nil {
				msgs = append(msgs, fmt.Sprintf("records[%d].%s: %v", i, column, err))
				continue
			}
			actual, ok := got[i].Get(column)
			if !ok {
				msgs = append(msgs, fmt.Sprintf("records[%d]: missing column %s", i, column))
				continue
			}
			if !value.Equal(expected.Value, actual) {
				msgs = append(msgs, fmt.Sprintf("records[%d].%s: expected %s, got %s", i, column, expected.Value, actual))
			}
		}
	}
	return msgs
}
