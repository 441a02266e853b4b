package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPragmas are applied on every Connect unless replaced with
// WithPragmas.
var DefaultPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Connection is an exclusive handle to one SQLite database.
//
// The handle is held only between Connect and Disconnect. db and conn are
// both nil while disconnected and both set while connected.
type Connection struct {
	name    string
	id      string
	logger  *slog.Logger
	pragmas []string

	db   *sql.DB
	conn *sql.Conn
}

// Option configures a Connection.
type Option func(*Connection)

// WithLogger sets the logger used for lifecycle and statement logs.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPragmas replaces DefaultPragmas. Pass no arguments to apply none.
func WithPragmas(pragmas ...string) Option {
	return func(c *Connection) {
		c.pragmas = append([]string(nil), pragmas...)
	}
}

// DiscardLogger returns a logger that drops everything. Useful in tests.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New creates an unopened Connection for the named database. The name is
// anything go-sqlite3 accepts: a file path, ":memory:", or a file: URI.
// No engine resources are acquired until Connect.
func New(name string, opts ...Option) *Connection {
	c := &Connection{
		name:    name,
		id:      uuid.Must(uuid.NewV7()).String(),
		logger:  slog.Default(),
		pragmas: append([]string(nil), DefaultPragmas...),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("conn", c.id)
	return c
}

// Name returns the database identifier given to New.
func (c *Connection) Name() string {
	return c.name
}

// ID returns the connection's log correlation id (a UUIDv7).
func (c *Connection) ID() string {
	return c.id
}

// Connected reports whether the Connection holds an engine handle.
func (c *Connection) Connected() bool {
	return c.conn != nil
}

// Connect opens the database and pins one engine connection.
//
// Returns ALREADY_CONNECTED if a handle is already held. If the engine
// cannot open the database or a pragma fails, everything acquired so far
// is released, the Connection stays disconnected, and QUERY_FAIL is
// returned.
func (c *Connection) Connect(ctx context.Context) error {
	if c.Connected() {
		return &Error{Code: CodeAlreadyConnected, Op: "connect"}
	}

	db, err := sql.Open("sqlite3", c.name)
	if err != nil {
		return queryFail("connect", "", fmt.Errorf("open database: %w", err))
	}

	// One engine connection; it is pinned below for the Connection's lifetime.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return queryFail("connect", "", fmt.Errorf("connect to database: %w", err))
	}

	if err := applyPragmas(ctx, conn, c.pragmas); err != nil {
		conn.Close()
		db.Close()
		return queryFail("connect", "", fmt.Errorf("apply pragmas: %w", err))
	}

	c.db = db
	c.conn = conn
	c.logger.Info("database connected", "db", c.name)
	return nil
}

// Disconnect releases the engine handle.
//
// Returns NOT_CONNECTED if no handle is held. The Connection is
// disconnected afterwards even when closing reports an error, which is
// returned as QUERY_FAIL.
func (c *Connection) Disconnect() error {
	if !c.Connected() {
		return &Error{Code: CodeNotConnected, Op: "disconnect"}
	}

	connErr := c.conn.Close()
	dbErr := c.db.Close()
	c.conn = nil
	c.db = nil

	if err := errors.Join(connErr, dbErr); err != nil {
		c.logger.Error("error closing database", "db", c.name, "error", err)
		return queryFail("disconnect", "", err)
	}

	c.logger.Info("database disconnected", "db", c.name)
	return nil
}

// Close disconnects if connected and is a no-op otherwise. It is the
// teardown path for deferred cleanup and satisfies io.Closer.
func (c *Connection) Close() error {
	if !c.Connected() {
		return nil
	}
	return c.Disconnect()
}

// requireConnected is the precondition for every data operation.
func (c *Connection) requireConnected(op string) error {
	if !c.Connected() {
		return &Error{Code: CodeNotConnected, Op: op}
	}
	return nil
}

// applyPragmas executes each pragma on the pinned connection.
func applyPragmas(ctx context.Context, conn *sql.Conn, pragmas []string) error {
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
