package cmd

import (
	"fmt"

	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	showPos  bool
	showType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a REXX file or expression",
	Long: `Tokenize (lex) a REXX program and print the resulting tokens.

This command is useful for debugging the lexer and understanding how
REXX source code is tokenized.

Examples:
  # Tokenize a script file
  rexx lex script.rexx

  # Tokenize an inline expression
  rexx lex -e "LET x = 42"

  # Show token types and positions
  rexx lex --show-type --show-pos script.rexx`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, _, err := readInput(args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			break
		}
		line := fmt.Sprintf("%q", tok.Literal)
		if showType {
			line = fmt.Sprintf("%-10s %s", tok.Type, line)
		}
		if showPos {
			line = fmt.Sprintf("%3d:%-3d %s", tok.Pos.Line, tok.Pos.Column, line)
		}
		fmt.Println(line)
	}
	return nil
}
