package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/store"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <sql>",
		Short: "Execute a statement that returns no rows",
		Long: `Execute one DDL or DML statement.

Example:
  sfsqlite --db ./app.db exec "CREATE TABLE People (ID INTEGER, Name TEXT)"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(rootOpts, cmd, func(ctx context.Context, conn *store.Connection, f *OutputFormatter) error {
				if err := conn.Execute(ctx, args[0]); err != nil {
					return f.StoreError("exec failed", err)
				}
				if f.Format == "json" {
					return f.Success(map[string]string{"code": string(store.CodeOK)})
				}
				fmt.Fprintln(f.Writer, store.CodeOK)
				return nil
			})
		},
	}
}
