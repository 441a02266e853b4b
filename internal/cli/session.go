package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/store"
)

// newFormatter builds the formatter for a command's output streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a text logger on w. Verbose enables debug output,
// which includes every SQL statement; otherwise only warnings and errors
// are written.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withConnection opens the configured database, runs fn, and closes the
// connection. Open failures are command errors.
func withConnection(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, conn *store.Connection, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	if opts.Database == "" {
		return f.UsageError("no database: pass --db or set "+EnvDatabase, nil)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(opts, cmd.ErrOrStderr())
	conn := store.New(opts.Database, store.WithLogger(logger))
	if err := conn.Connect(ctx); err != nil {
		_ = f.Error(string(store.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	f.VerboseLog("connected to %s", opts.Database)
	return fn(ctx, conn, f)
}
