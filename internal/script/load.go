package script

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
	"github.com/blackraven36/SF-Sqlite/internal/store"
)

var knownOps = []string{
	OpConnect, OpDisconnect, OpCreateTable, OpDropTable, OpInsertValues,
	OpInsert, OpSelect, OpExec, OpQuery, OpScalar, OpCount, OpExists,
}

// Load reads a script file. Files ending in .cue are evaluated as CUE;
// everything else is parsed as YAML with unknown fields rejected.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	var s *Script
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		s, err = ParseCUE(data, path)
	default:
		s, err = ParseYAML(data)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ParseYAML decodes and validates a YAML script.
func ParseYAML(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// ParseCUE evaluates a CUE script. The top level must be a concrete struct
// shaped like the YAML form. filename is used in error positions only.
func ParseCUE(data []byte, filename string) (*Script, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE script is not concrete: %w", err)
	}

	var s Script
	if err := v.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// Validate checks required fields and fills step defaults. An empty
// Database is left empty; Run treats it as DefaultDatabase.
func Validate(s *Script) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i := range s.Steps {
		if err := validateStep(&s.Steps[i]); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step *Step) error {
	if step.Op == "" {
		return fmt.Errorf("op is required")
	}
	if !slices.Contains(knownOps, step.Op) {
		return fmt.Errorf("unknown op %q", step.Op)
	}

	switch step.Op {
	case OpCreateTable:
		if step.Table == "" || len(step.Schema) == 0 {
			return fmt.Errorf("%s requires table and schema", step.Op)
		}
	case OpDropTable, OpSelect, OpExists:
		if step.Table == "" {
			return fmt.Errorf("%s requires table", step.Op)
		}
	case OpInsertValues:
		if step.Table == "" || len(step.Values) == 0 {
			return fmt.Errorf("%s requires table and values", step.Op)
		}
	case OpInsert:
		if step.Table == "" || len(step.Record) == 0 {
			return fmt.Errorf("%s requires table and record", step.Op)
		}
	case OpExec, OpQuery, OpCount:
		if step.SQL == "" {
			return fmt.Errorf("%s requires sql", step.Op)
		}
	case OpScalar:
		if step.SQL == "" {
			return fmt.Errorf("%s requires sql", step.Op)
		}
		switch step.As {
		case "":
			step.As = ScalarText
		case ScalarInt, ScalarChar, ScalarText:
		default:
			return fmt.Errorf("scalar as must be int, char, or text, got %q", step.As)
		}
	}

	if len(step.Params) > 0 {
		if step.Op != OpQuery {
			return fmt.Errorf("params are only valid for query")
		}
		if _, err := queryir.ParseParameters(step.Params); err != nil {
			return err
		}
	}

	if step.Expect != nil {
		switch store.Code(step.Expect.Code) {
		case "", store.CodeOK, store.CodeAlreadyConnected, store.CodeNotConnected, store.CodeQueryFail:
		default:
			return fmt.Errorf("expect: unknown code %q", step.Expect.Code)
		}
		if step.Expect.Value != nil {
			if _, err := queryir.ParameterFromAny(step.Expect.Value); err != nil {
				return fmt.Errorf("expect.value: %w", err)
			}
		}
	}
	return nil
}
