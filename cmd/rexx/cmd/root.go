package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// exitCode holds the script's EXIT code for main to report.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "rexx",
	Short: "REXX interpreter",
	Long: `go-rexx is a Go implementation of a REXX-dialect scripting language.

The engine executes parsed instruction sequences under REXX semantics:
dynamic string values with numeric comparison rules, SIGNAL condition
traps, a pluggable ADDRESS dispatch mechanism, runtime INTERPRET, a
TRACE facility and the classic PUSH/PULL/QUEUE data stack.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode returns the exit code the executed script requested.
func ExitCode() int {
	return exitCode
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
