package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wabbit-lang/wabbit/internal/interp"
	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/types"
)

var (
	runEval      string
	runDumpAST   bool
	runTypeCheck bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Lex, parse, type-check, and interpret a Wabbit program",
	Long: `Run a Wabbit program directly, without compiling it to C or WASM.

Exit status reflects whether any diagnostic was emitted during parsing,
type-checking, or execution; main's return value is reported on stderr
with --verbose and does not become the process exit code.

Examples:
  wabbit run program.wb
  wabbit run -e "func main() { print 1 + 2; }"
  wabbit run --type-check=false program.wb`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "run inline source instead of reading from a file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "print the parsed AST before running")
	runCmd.Flags().BoolVar(&runTypeCheck, "type-check", true, "type-check before interpreting")
}

func runRun(cmd *cobra.Command, args []string) error {
	src, name, err := readSource(runEval, args)
	if err != nil {
		return err
	}

	p := parser.New(src)
	prog := p.ParseProgram()
	if diags := p.Errors(); diags.HasErrors() {
		return fmt.Errorf("%s", diags.FormatAll(src, false))
	}

	if runDumpAST {
		dumpProgram(prog)
	}

	if runTypeCheck {
		if diags, ok := types.Check(prog); !ok {
			return fmt.Errorf("%s", diags.FormatAll(src, false))
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "running %s\n", name)
	}

	result, err := interp.New(interp.WithOutput(os.Stdout)).Run(prog)
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "main returned %d\n", result)
	}
	return nil
}
