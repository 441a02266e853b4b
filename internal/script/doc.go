// Package script runs declarative SQL scripts against a store.Connection.
//
// A script is a named list of steps loaded from YAML or CUE. Each step is
// one Connection operation plus an optional expectation about its result
// code and output. Running a script produces a trace with one event per
// step, which tests compare against golden files.
//
//	name: people
//	steps:
//	  - op: connect
//	  - op: create_table
//	    table: People
//	    schema:
//	      - {name: ID, type: INTEGER}
//	      - {name: Name, type: TEXT}
//	  - op: insert
//	    table: People
//	    record:
//	      - {column: Name, value: "'Ada'"}
//	  - op: select
//	    table: People
//	    columns: [Name]
//	    expect: {rows: 1}
package script
