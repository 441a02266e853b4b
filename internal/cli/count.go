package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/store"
)

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <sql>",
		Short: "Run a query and print how many rows it produced",
		Long: `Run a row-producing statement and print its row count. The query runs
as written; it is not rewritten to COUNT(*).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(rootOpts, cmd, func(ctx context.Context, conn *store.Connection, f *OutputFormatter) error {
				n, err := conn.ExecuteCount(ctx, args[0])
				if err != nil {
					return f.StoreError("count failed", err)
				}
				if f.Format == "json" {
					return f.Success(map[string]int{"count": n})
				}
				return f.Success(n)
			})
		},
	}
}
