package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/export"
	"github.com/blackraven36/SF-Sqlite/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	To  string
	Out string
}

// ExportSummary is reported after a successful export to a file.
type ExportSummary struct {
	Format string `json:"format"`
	Path   string `json:"path"`
	Rows   int    `json:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <sql>",
		Short: "Export a query result as CSV, JSON Lines, or XLSX",
		Long: `Run a query and write its result in the chosen format.

Without --out (or with --out -) the export is written to stdout.

Examples:
  sfsqlite --db ./app.db export "SELECT * FROM People" --to csv
  sfsqlite --db ./app.db export "SELECT * FROM People" --to xlsx --out people.xlsx`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "csv", "export format (csv|jsonl|xlsx)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(opts *ExportOptions, sql string, cmd *cobra.Command) error {
	if _, err := export.ParseFormat(opts.To); err != nil {
		return newFormatter(opts.RootOptions, cmd).UsageError("invalid --to", err)
	}

	return withConnection(opts.RootOptions, cmd, func(ctx context.Context, conn *store.Connection, f *OutputFormatter) error {
		rs, err := conn.QueryResult(ctx, sql)
		if err != nil {
			return f.StoreError("export query failed", err)
		}

		toStdout := opts.Out == "" || opts.Out == "-"
		if toStdout {
			return encodeTo(cmd.OutOrStdout(), opts.To, rs)
		}

		file, err := os.Create(opts.Out)
		if err != nil {
			return f.UsageError("failed to create output file", err)
		}
		if err := encodeTo(file, opts.To, rs); err != nil {
			file.Close()
			_ = os.Remove(opts.Out)
			return WrapExitError(ExitFailure, "export failed", err)
		}
		if err := file.Close(); err != nil {
			return WrapExitError(ExitFailure, "export failed", err)
		}

		f.VerboseLog("wrote %d rows to %s", len(rs.Rows), opts.Out)
		summary := ExportSummary{Format: opts.To, Path: opts.Out, Rows: len(rs.Rows)}
		if f.Format == "json" {
			return f.Success(summary)
		}
		return f.Success(fmt.Sprintf("Exported %d %s to %s", summary.Rows, plural(summary.Rows, "row", "rows"), summary.Path))
	})
}

func encodeTo(w io.Writer, format string, rs *store.ResultSet) error {
	enc, err := export.NewEncoder(format, w)
	if err != nil {
		return err
	}
	writeErr := export.Write(enc, rs)
	closeErr := enc.Close()
	return errors.Join(writeErr, closeErr)
}
