package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/queryir"
	"github.com/blackraven36/SF-Sqlite/internal/querysql"
	"github.com/blackraven36/SF-Sqlite/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Params []string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a query and print every row",
		Long: `Run a row-producing statement and print the result.

With --param, the statement is a template whose {0}, {1}, ... placeholders
are replaced by the parameters rendered as SQL literals. A parameter is
int:N, float:X, text:S, blob:HEX, or null; anything else is text.

Examples:
  sfsqlite --db ./app.db query "SELECT * FROM People"
  sfsqlite --db ./app.db query "SELECT * FROM People WHERE Name = {0}" --param "text:O'Brien"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "template parameter (repeatable, in order)")

	return cmd
}

func runQuery(opts *QueryOptions, sql string, cmd *cobra.Command) error {
	params, err := queryir.ParseParameters(opts.Params)
	if err != nil {
		return newFormatter(opts.RootOptions, cmd).UsageError("invalid --param", err)
	}
	if refs := querysql.Placeholders(sql); len(params) == 0 && len(refs) > 0 {
		return newFormatter(opts.RootOptions, cmd).UsageError("missing --param",
			fmt.Errorf("statement references %d placeholder(s) and no --param was given", len(refs)))
	}

	return withConnection(opts.RootOptions, cmd, func(ctx context.Context, conn *store.Connection, f *OutputFormatter) error {
		var rs *store.ResultSet
		var err error
		if len(params) == 0 {
			rs, err = conn.QueryResult(ctx, sql)
		} else {
			rs, err = conn.QueryParamsResult(ctx, sql, params)
		}
		if err != nil {
			return f.StoreError("query failed", err)
		}
		return f.Table(rs.Columns, rs.Rows)
	})
}
