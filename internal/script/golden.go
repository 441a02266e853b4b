package script

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// Snapshot is the golden form of a script run.
type Snapshot struct {
	ScriptName string       `json:"script_name"`
	Trace      []TraceEvent `json:"trace"`
}

// toCanonicalMap converts the snapshot into the shapes MarshalCanonical
// accepts.
func (s *Snapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		m := map[string]any{
			"step": event.Step,
			"op":   event.Op,
			"code": event.Code,
		}
		if event.Rows != nil {
			m["rows"] = event.Rows
		}
		if event.Count != nil {
			m["count"] = *event.Count
		}
		if event.Value != nil {
			m["value"] = event.Value
		}
		if event.Exists != nil {
			m["exists"] = *event.Exists
		}
		trace[i] = m
	}
	return map[string]any{
		"script_name": s.ScriptName,
		"trace":       trace,
	}
}

// MarshalTrace returns the canonical JSON of a run's trace.
func MarshalTrace(name string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScriptName: name, Trace: result.Trace}
	return value.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden runs s and compares its trace with
// testdata/golden/{s.Name}.golden. Regenerate with:
//
//	go test ./internal/script -update
func RunWithGolden(t *testing.T, s *Script) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), s)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, s.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace with the golden file
// for name.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, traceJSON)
	return nil
}
