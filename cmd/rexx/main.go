// Command rexx is the command-line interface of the go-rexx interpreter.
package main

import (
	"os"

	"github.com/cwbudde/go-rexx/cmd/rexx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if cmd.ExitCode() != 0 {
			os.Exit(cmd.ExitCode())
		}
		os.Exit(1)
	}
	os.Exit(cmd.ExitCode())
}
