package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/store"
	"github.com/blackraven36/SF-Sqlite/internal/value"
)

// ScalarOptions holds flags for the scalar command.
type ScalarOptions struct {
	*RootOptions
	As string
}

// ScalarKinds lists the accepted --as values.
var ScalarKinds = []string{"int", "char", "text"}

// NewScalarCommand creates the scalar command.
func NewScalarCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScalarOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scalar <sql>",
		Short: "Run a query that yields exactly one value",
		Long: `Run a query that must produce exactly one row with one column and
print the value decoded as an integer, a single character, or text.

Zero rows, several rows, several columns, NULL, or a value of the wrong
type all fail with QUERY_FAIL.

Example:
  sfsqlite --db ./app.db scalar "SELECT count(*) FROM People" --as int`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScalar(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "text", "decode as int|char|text")

	return cmd
}

func runScalar(opts *ScalarOptions, sql string, cmd *cobra.Command) error {
	var get func(ctx context.Context, conn *store.Connection) (value.Value, error)
	switch opts.As {
	case "int":
		get = func(ctx context.Context, conn *store.Connection) (value.Value, error) {
			n, err := conn.ScalarInt(ctx, sql)
			return value.Integer(n), err
		}
	case "char":
		get = func(ctx context.Context, conn *store.Connection) (value.Value, error) {
			r, err := conn.ScalarChar(ctx, sql)
			return value.Text(string(r)), err
		}
	case "text":
		get = func(ctx context.Context, conn *store.Connection) (value.Value, error) {
			s, err := conn.ScalarText(ctx, sql)
			return value.Text(s), err
		}
	default:
		return newFormatter(opts.RootOptions, cmd).UsageError(
			fmt.Sprintf("invalid --as %q: must be one of %v", opts.As, ScalarKinds), nil)
	}

	return withConnection(opts.RootOptions, cmd, func(ctx context.Context, conn *store.Connection, f *OutputFormatter) error {
		v, err := get(ctx, conn)
		if err != nil {
			return f.StoreError("scalar failed", err)
		}
		if f.Format == "json" {
			return f.Success(map[string]any{"value": jsonCell(v)})
		}
		return f.Success(v.String())
	})
}
