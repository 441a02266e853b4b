package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackraven36/SF-Sqlite/internal/script"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Update bool // regenerate golden files
	Trace  bool // print each script's canonical trace
}

// ScriptResult holds the result of a single script.
type ScriptResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
	Trace  string   `json:"trace,omitempty"`
}

// RunResult holds the overall result of a run.
type RunResult struct {
	Scripts []ScriptResult `json:"scripts"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Total   int            `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script>...",
		Short: "Run YAML or CUE scripts",
		Long: `Run one or more scripts. Each script opens its own database (named in
the script, or --db, or an in-memory database), executes its steps in order,
and checks each step's expectations.

When golden/<name>.golden exists next to a script, the run's trace must
match it. --update rewrites those files.

Exit codes:
  0 - All scripts passed
  1 - One or more scripts failed
  2 - Command error (unreadable or invalid script)

Examples:
  sfsqlite run ./scripts/people.yaml
  sfsqlite run ./scripts/*.cue --update
  sfsqlite run ./scripts/people.yaml --format json --trace`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScripts(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include each script's trace in the output")

	return cmd
}

func runScripts(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	scripts := make([]*script.Script, 0, len(paths))
	for _, path := range paths {
		s, err := script.Load(path)
		if err != nil {
			return f.UsageError(fmt.Sprintf("failed to load %s", path), err)
		}
		// --db only fills in scripts that name no database.
		if s.Database == "" {
			s.Database = opts.Database
		}
		scripts = append(scripts, s)
	}

	runner := script.NewRunner(script.WithLogger(newLogger(opts.RootOptions, cmd.ErrOrStderr())))
	result := RunResult{
		Scripts: make([]ScriptResult, 0, len(scripts)),
		Total:   len(scripts),
	}

	for i, s := range scripts {
		sr := runOne(cmd, runner, opts, s, paths[i])
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if f.Format != "json" {
			printScriptResult(f, sr)
		}
		result.Scripts = append(result.Scripts, sr)
	}

	if f.Format == "json" {
		if err := f.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scripts failed", result.Failed, result.Total))
	}
	return nil
}

func runOne(cmd *cobra.Command, runner *script.Runner, opts *RunOptions, s *script.Script, path string) ScriptResult {
	sr := ScriptResult{Name: s.Name}

	res, err := runner.Run(cmd.Context(), s)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}

	trace, err := script.MarshalTrace(s.Name, res)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to marshal trace: %v", err)}
		return sr
	}
	if opts.Trace {
		sr.Trace = string(trace)
	}

	sr.Pass = res.Pass
	sr.Errors = res.Errors

	goldenPath := goldenFilePath(path)
	if opts.Update {
		if err := writeGolden(goldenPath, trace); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to update golden file: %v", err))
		}
		return sr
	}

	want, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return sr
	}
	if err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("failed to read golden file: %v", err))
		return sr
	}
	if !bytes.Equal(bytes.TrimSpace(want), trace) {
		sr.Pass = false
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
	}
	return sr
}

func printScriptResult(f *OutputFormatter, sr ScriptResult) {
	mark := "✓"
	if !sr.Pass {
		mark = "✗"
	}
	fmt.Fprintf(f.Writer, "%s %s\n", mark, sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(f.Writer, "  %s\n", e)
	}
	if sr.Trace != "" {
		fmt.Fprintf(f.Writer, "  trace: %s\n", sr.Trace)
	}
}

// goldenFilePath returns golden/<base>.golden next to the script.
func goldenFilePath(scriptPath string) string {
	dir := filepath.Dir(scriptPath)
	base := filepath.Base(scriptPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

func writeGolden(path string, trace []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, trace, 0644)
}
