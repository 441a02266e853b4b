// Package value provides the tagged cell representation for materialized
// query results.
//
// Every cell read from the engine becomes one of a closed set of Value
// types matching SQLite's storage classes:
//   - Null
//   - Integer (int64)
//   - Float (float64)
//   - Text (string)
//   - Blob ([]byte)
//
// A Row is an ordered sequence of named cells in the column order the
// engine returned. Scalar queries decode a single cell through one of the
// typed decoders (AsInteger, AsChar, AsText); callers pick the decoder that
// matches the column they expect, and a kind mismatch is an error rather
// than a zero value.
package value
