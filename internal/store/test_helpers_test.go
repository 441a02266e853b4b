package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

// newTestConnection returns a connected Connection on a fresh database file.
func newTestConnection(t *testing.T, opts ...Option) *Connection {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	c := New(path, append([]Option{WithLogger(DiscardLogger())}, opts...)...)
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// verifyPragma checks that a pragma is set to the expected value.
func (c *Connection) verifyPragma(ctx context.Context, name, expected string) error {
	v, err := c.scalar(ctx, "verify_pragma", "PRAGMA "+name)
	if err != nil {
		return err
	}
	if v.String() != expected {
		return fmt.Errorf("%s = %q, expected %q", name, v.String(), expected)
	}
	return nil
}
