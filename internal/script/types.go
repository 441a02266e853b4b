package script

import (
	"github.com/blackraven36/SF-Sqlite/internal/queryir"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// Step operations.
const (
	OpConnect      = "connect"
	OpDisconnect   = "disconnect"
	OpCreateTable  = "create_table"
	OpDropTable    = "drop_table"
	OpInsertValues = "insert_values"
	OpInsert       = "insert"
	OpSelect       = "select"
	OpExec         = "exec"
	OpQuery        = "query"
	OpScalar       = "scalar"
	OpCount        = "count"
	OpExists       = "exists"
)

// Scalar decodings accepted by the scalar op.
const (
	ScalarInt  = "int"
	ScalarChar = "char"
	ScalarText = "text"
)

// DefaultDatabase is used when a script names no database.
const DefaultDatabase = ":memory:"

// Script is a named sequence of steps run against one database.
type Script struct {
	// Name identifies the script and names its golden file.
	Name string `yaml:"name" json:"name"`

	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Database is the sqlite3 data source name. Default: ":memory:".
	Database string `yaml:"database,omitempty" json:"database,omitempty"`

	Steps []Step `yaml:"steps" json:"steps"`
}

// Step is one Connection operation. Which fields are read depends on Op.
type Step struct {
	Op string `yaml:"op" json:"op"`

	// Table is used by create_table, drop_table, insert_values, insert,
	// select, and exists.
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Schema is the column list for create_table.
	Schema []queryir.ColumnType `yaml:"schema,omitempty" json:"schema,omitempty"`

	// Values are the pre-quoted literals for insert_values.
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`

	// Record is the column/literal list for insert.
	Record []queryir.ColumnData `yaml:"record,omitempty" json:"record,omitempty"`

	// Columns and Where narrow a select. Both are optional.
	Columns []string             `yaml:"columns,omitempty" json:"columns,omitempty"`
	Where   []queryir.ColumnData `yaml:"where,omitempty" json:"where,omitempty"`

	// SQL is the statement for exec, query, scalar, and count. For query
	// it may be a {i} template filled from Params.
	SQL string `yaml:"sql,omitempty" json:"sql,omitempty"`

	// Params are typed parameters in queryir.ParseParameter form.
	Params []string `yaml:"params,omitempty" json:"params,omitempty"`

	// As selects the scalar decoding: int, char, or text. Default: text.
	As string `yaml:"as,omitempty" json:"as,omitempty"`

	Expect *Expect `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Expect describes the outcome a step must produce. Unset fields are not
// checked.
type Expect struct {
	// Code is the expected result code. Default: OK.
	Code string `yaml:"code,omitempty" json:"code,omitempty"`

	// Rows is the expected row count for select, query, and count.
	Rows *int `yaml:"rows,omitempty" json:"rows,omitempty"`

	// Records are expected row contents for select and query, matched
	// positionally. Each record lists only the columns it checks.
	Records []map[string]any `yaml:"records,omitempty" json:"records,omitempty"`

	// Value is the expected scalar.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	// Exists is the expected answer of an exists step.
	Exists *bool `yaml:"exists,omitempty" json:"exists,omitempty"`
}

// TraceEvent records what one step did.
type TraceEvent struct {
	Step   int         `json:"step"`
	Op     string      `json:"op"`
	Code   string      `json:"code"`
	Rows   []value.Row `json:"rows,omitempty"`
	Count  *int        `json:"count,omitempty"`
	Value  value.Value `json:"value,omitempty"`
	Exists *bool       `json:"exists,omitempty"`
}

// Result is the outcome of running a script.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	// Errors holds one message per failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
