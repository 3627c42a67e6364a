package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cwbudde/go-rexx/internal/errors"
	"github.com/cwbudde/go-rexx/internal/interp"
	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/cwbudde/go-rexx/internal/parser"
	"github.com/spf13/cobra"
)

var (
	evalExpr    string
	trace       bool
	noInterpret bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a REXX file or expression",
	Long: `Execute a REXX program from a file or inline expression.

Examples:
  # Run a script file
  rexx run script.rexx

  # Evaluate an inline expression
  rexx run -e "SAY 'Hello, World!'"

  # Run with the instruction trace streamed to the output
  rexx run --trace script.rexx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&trace, "trace", false, "stream instruction trace events (TRACE A)")
	runCmd.Flags().BoolVar(&noInterpret, "no-interpret", false, "disable the INTERPRET instruction (NO_INTERPRET)")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readInput(args)
	if err != nil {
		return err
	}

	// Parser: build the instruction sequence.
	p := parser.New(lexer.New(input), input)
	program := p.ParseProgram()
	program.Filename = filename

	if len(p.Errors()) > 0 {
		for _, msg := range p.Errors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", filename, msg)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(p.Errors()))
	}

	// Interpreter: execute the program.
	opts := []interp.Option{
		interp.WithFilename(filename),
		interp.WithLoader(interp.NewScriptLibraryLoader()),
	}
	if trace {
		opts = append(opts, interp.WithTraceStream())
	}
	if noInterpret {
		opts = append(opts, interp.WithNoInterpret())
	}
	engine := interp.New(os.Stdout, opts...)
	if trace {
		_ = engine.Tracer().SetMode(interp.TraceAll)
	}

	result, rerr := engine.Run(program)
	if rerr != nil {
		fmt.Fprintln(os.Stderr, errors.FromError(rerr, input).Format(true))
		// Unhandled errors exit with RC when set, else 1.
		exitCode = 1
		if rc, ok := engine.Variables().Get("RC"); ok {
			if n, err := strconv.Atoi(rc.String()); err == nil && n != 0 {
				exitCode = n
			}
		}
		return fmt.Errorf("execution failed")
	}
	if result.ErrorMessage != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.ErrorMessage)
	}
	exitCode = result.ExitCode
	return nil
}

func readInput(args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], rerr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
