package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/store"
)

// NewExistsCommand creates the exists command.
func NewExistsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "exists <table>",
		Short:         "Report whether a table exists",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(rootOpts, cmd, func(ctx context.Context, conn *store.Connection, f *OutputFormatter) error {
				ok, err := conn.TableExists(ctx, args[0])
				if err != nil {
					return f.StoreError("exists failed", err)
				}
				if f.Format == "json" {
					return f.Success(map[string]bool{"exists": ok})
				}
				return f.Success(ok)
			})
		},
	}
}
