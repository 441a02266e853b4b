package queryir

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyName is returned when a table or column name is empty.
	ErrEmptyName = errors.New("name is empty")

	// ErrEmptyType is returned when a column's declared type is empty.
	ErrEmptyType = errors.New("declared type is empty")
)

// ColumnType describes one column of a table to create.
type ColumnType struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"` // e.g. "INTEGER", "TEXT NOT NULL"
}

// Validate checks the (name, type) invariant.
func (c ColumnType) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("column: %w", ErrEmptyName)
	}
	if strings.TrimSpace(c.Type) == "" {
		return fmt.Errorf("column %q: %w", c.Name, ErrEmptyType)
	}
	return nil
}

// Affinity reports the column affinity SQLite assigns to the declared type.
func (c ColumnType) Affinity() Affinity {
	return AffinityOf(c.Type)
}

// ColumnData pairs a column with a literal already quoted for SQLite,
// e.g. {"Name", "'Ada'"}.
type ColumnData struct {
	Name  string `yaml:"column" json:"column"`
	Value string `yaml:"value" json:"value"`
}

// Validate checks that the column name is present. The literal is not
// inspected.
func (c ColumnData) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("column: %w", ErrEmptyName)
	}
	return nil
}

// Affinity is one of SQLite's five column affinities.
type Affinity string

const (
	AffinityInteger Affinity = "INTEGER"
	AffinityText    Affinity = "TEXT"
	AffinityBlob    Affinity = "BLOB"
	AffinityReal    Affinity = "REAL"
	AffinityNumeric Affinity = "NUMERIC"
)

// AffinityOf applies SQLite's affinity rules (section 3.1 of the datatype
// documentation) to a declared type. The rules are checked in order.
func AffinityOf(declType string) Affinity {
	t := strings.ToUpper(declType)
	switch {
	case strings.Contains(t, "INT"):
		return AffinityInteger
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return AffinityText
	case strings.Contains(t, "BLOB"), strings.TrimSpace(t) == "":
		return AffinityBlob
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return AffinityReal
	default:
		return AffinityNumeric
	}
}
