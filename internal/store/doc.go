// Package store provides the SQLite connection manager and the execution
// layer that materializes results into value.Row.
//
// # Connection lifecycle
//
// A Connection is created unopened. Connect moves it to Connected by
// opening the database and pinning a single engine connection; Disconnect
// releases it. Connecting twice fails with ALREADY_CONNECTED and
// disconnecting twice fails with NOT_CONNECTED. Every data operation
// checks the state first and fails with NOT_CONNECTED without touching the
// engine. Query failures never change the state.
//
// # Statements
//
// Each call prepares exactly one statement and closes it, together with
// any cursor, before returning on every path. Row-producing calls drain
// the cursor completely; there is no streaming contract.
//
// # Errors
//
// Every error returned by a Connection is a *Error carrying one of the
// codes ALREADY_CONNECTED, NOT_CONNECTED, or QUERY_FAIL. Use CodeOf or
// errors.Is with the Err* sentinels to branch on them.
//
// # Database Configuration
//
// Default pragmas match a single-writer embedded database:
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//
// A Connection is not safe for concurrent use.
package store
