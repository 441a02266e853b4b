package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// EnvDatabase names the environment variable that supplies --db.
const EnvDatabase = "SFSQLITE_DB"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	EnvFile  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sfsqlite CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sfsqlite",
		Short: "sfsqlite - SQL access over an embedded SQLite database",
		Long: `Run statements, queries, scalar lookups, exports, and scripts against a
single SQLite database file.

The database comes from --db, then the SFSQLITE_DB environment variable,
then SFSQLITE_DB in the file named by --env-file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.resolveDatabase()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "SQLite database path or DSN (default $"+EnvDatabase+")")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file consulted for "+EnvDatabase)

	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewScalarCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewExistsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}

// resolveDatabase fills Database from the environment when --db is unset.
func (o *RootOptions) resolveDatabase() error {
	if o.Database != "" {
		return nil
	}
	if db := os.Getenv(EnvDatabase); db != "" {
		o.Database = db
		return nil
	}
	if o.EnvFile == "" {
		return nil
	}

	env, err := godotenv.Read(o.EnvFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read env file", err)
	}
	o.Database = env[EnvDatabase]
	return nil
}
