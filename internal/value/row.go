package value

// Cell is one named value in a Row.
type Cell struct {
	Name  string
	Value Value
}

// Row is one result record. Cells appear in the column order reported by
// the engine, and duplicate column names are kept as-is.
type Row []Cell

// Columns returns the cell names in order.
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, c := range r {
		cols[i] = c.Name
	}
	return cols
}

// Values returns the cell values in order.
func (r Row) Values() []Value {
	vals := make([]Value, len(r))
	for i, c := range r {
		vals[i] = c.Value
	}
	return vals
}

// Get returns the value of the first cell with the given name.
func (r Row) Get(name string) (Value, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Equal reports whether both rows have the same names and values in the
// same order.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i].Name != other[i].Name || !Equal(r[i].Value, other[i].Value) {
			return false
		}
	}
	return true
}
