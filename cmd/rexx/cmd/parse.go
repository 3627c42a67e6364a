package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/cwbudde/go-rexx/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a REXX file and dump the instruction sequence",
	Long: `Parse a REXX program and print its instruction records.

This command is useful for debugging the parser and inspecting the
instruction tree the engine executes.

Examples:
  # Parse a script file
  rexx parse script.rexx

  # Parse an inline expression
  rexx parse -e "SAY 1 + 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	input, filename, err := readInput(args)
	if err != nil {
		return err
	}

	p := parser.New(lexer.New(input), input)
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		for _, msg := range p.Errors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", filename, msg)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors()))
	}

	for _, ins := range program.Instructions {
		fmt.Printf("%4d  %-20s %s\n", ins.Line(), ins.Kind(), ins.Source())
	}
	return nil
}
