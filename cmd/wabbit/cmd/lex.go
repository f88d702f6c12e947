package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wabbit-lang/wabbit/internal/lexer"
	"github.com/wabbit-lang/wabbit/internal/token"
)

var (
	lexEval       string
	lexShowPos    bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Dump the token stream for a Wabbit program",
	Long: `Tokenize a Wabbit program and print the resulting tokens, one per line.

This is a debugging aid for the lexer; it has no effect on parsing,
type-checking, or execution.

Examples:
  wabbit lex program.wb
  wabbit lex -e "print 1 + 2;"
  wabbit lex --show-pos program.wb
  wabbit lex --only-errors program.wb`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline source instead of reading from a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's line:column position")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only lexical errors, not tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	src, name, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("lexing %s (%d bytes)\n", name, len(src))
	}

	l := lexer.New(src)

	var tokenCount int
	for {
		tok := l.NextToken()
		tokenCount++
		printToken(tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if lexErrs := l.Errors(); len(lexErrs) > 0 {
		for _, le := range lexErrs {
			if lexOnlyErrors {
				fmt.Printf("%s: %s\n", le.Pos, le.Message)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %s\n", le.Pos, le.Message)
			}
		}
		return fmt.Errorf("found %d lexical error(s)", len(lexErrs))
	}

	if verbose {
		fmt.Printf("%d token(s)\n", tokenCount)
	}

	return nil
}

func printToken(tok token.Token) {
	if lexOnlyErrors {
		return
	}
	if lexShowPos {
		fmt.Printf("%-10s %-12q %s\n", tok.Kind, tok.Literal, tok.Pos)
		return
	}
	fmt.Printf("%-10s %q\n", tok.Kind, tok.Literal)
}

// readSource resolves a command's input: either inline via -e, or the
// single positional file argument. Exactly one must be given.
func readSource(eval string, args []string) (src, name string, err error) {
	if eval != "" {
		if len(args) != 0 {
			return "", "", fmt.Errorf("cannot combine -e with a file argument")
		}
		return eval, "<eval>", nil
	}
	if len(args) != 1 {
		return "", "", fmt.Errorf("expected a file argument or -e")
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(content), args[0], nil
}
