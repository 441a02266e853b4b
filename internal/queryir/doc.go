// Package queryir defines the structured descriptors the query builder
// turns into SQL text.
//
// Descriptors:
//   - ColumnType: (name, declared type) pair used only by CREATE TABLE
//   - ColumnData: (name, literal) pair used by keyed inserts and equality filters
//   - Parameter: a typed value substituted into a {i} query template
//
// ColumnData values are raw SQL literals. They are already quoted for the
// engine and the builder copies them verbatim. Parameters are the
// injection-aware path: they carry a typed value.Value and are rendered to
// an escaped literal at substitution time.
package queryir
