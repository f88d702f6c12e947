package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/types"
)

var checkEval string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Type-check a Wabbit program",
	Long: `Parse and type-check a Wabbit program, printing any diagnostics.

Exits with a non-zero status if parsing or type-checking fails.

Examples:
  wabbit check program.wb
  wabbit check -e "func main() { var x int = true; }"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkEval, "eval", "e", "", "check inline source instead of reading from a file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	src, name, err := readSource(checkEval, args)
	if err != nil {
		return err
	}

	p := parser.New(src)
	prog := p.ParseProgram()
	if diags := p.Errors(); diags.HasErrors() {
		return fmt.Errorf("%s", diags.FormatAll(src, false))
	}

	diags, ok := types.Check(prog)
	if !ok {
		return fmt.Errorf("%s", diags.FormatAll(src, false))
	}

	if verbose {
		fmt.Printf("%s: ok\n", name)
	} else {
		fmt.Println("ok")
	}
	return nil
}
