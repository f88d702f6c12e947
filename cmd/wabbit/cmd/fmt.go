package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/printer"
)

var (
	fmtWrite     bool
	fmtList      bool
	fmtDiff      bool
	fmtRecursive bool
	fmtIndent    int
	fmtUseTabs   bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files or directories...]",
	Short: "Format Wabbit source files",
	Long: `Format Wabbit source files with the AST-driven pretty-printer.

By default, fmt formats the files named on the command line and writes
the result to standard output. With no path given, it reads from
standard input.

Examples:
  wabbit fmt hello.wb                # format to stdout
  wabbit fmt -w file1.wb file2.wb    # overwrite files
  cat script.wb | wabbit fmt         # format from stdin
  wabbit fmt -l -r src/              # list files that need formatting
  wabbit fmt -d script.wb            # show a diff of the changes`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to (source) file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "display diffs instead of rewriting files")
	fmtCmd.Flags().BoolVarP(&fmtRecursive, "recursive", "r", false, "process directories recursively")
	fmtCmd.Flags().IntVar(&fmtIndent, "indent", 4, "number of spaces per indentation level")
	fmtCmd.Flags().BoolVar(&fmtUseTabs, "tabs", false, "use tabs instead of spaces for indentation")
}

func runFmt(cmd *cobra.Command, args []string) error {
	if fmtWrite && fmtList {
		return fmt.Errorf("cannot use -w and -l together")
	}
	if fmtWrite && fmtDiff {
		return fmt.Errorf("cannot use -w and -d together")
	}

	opts := printer.Options{IndentWidth: fmtIndent, UseSpaces: !fmtUseTabs}

	if len(args) == 0 {
		return formatStdin(opts)
	}

	hasErrors := false
	for _, path := range args {
		if err := processPath(path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "error processing %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func processPath(path string, opts printer.Options) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if fmtRecursive {
			return processDirectory(path, opts)
		}
		return fmt.Errorf("%s is a directory (use -r to process recursively)", path)
	}
	return formatFile(path, opts)
}

func processDirectory(dir string, opts printer.Options) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".wb") {
			return nil
		}
		if err := formatFile(path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "error formatting %s: %v\n", path, err)
		}
		return nil
	})
}

func formatStdin(opts printer.Options) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	formatted, err := formatSource(string(src), opts)
	if err != nil {
		return err
	}
	fmt.Print(formatted)
	return nil
}

func formatFile(filename string, opts printer.Options) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	original := string(src)

	formatted, err := formatSource(original, opts)
	if err != nil {
		return err
	}
	changed := original != formatted

	switch {
	case fmtList:
		if changed {
			fmt.Println(filename)
		}
	case fmtDiff:
		if changed {
			fmt.Printf("--- %s (original)\n", filename)
			fmt.Printf("+++ %s (formatted)\n", filename)
			showDiff(original, formatted)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
			if verbose {
				fmt.Printf("formatted %s\n", filename)
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

func formatSource(source string, opts printer.Options) (string, error) {
	p := parser.New(source)
	prog := p.ParseProgram()
	if diags := p.Errors(); diags.HasErrors() {
		return "", fmt.Errorf("%s", diags.FormatAll(source, false))
	}
	return printer.New(opts).Print(prog), nil
}

// showDiff prints a simple line-by-line diff of original vs formatted.
func showDiff(original, formatted string) {
	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	maxLines := len(origLines)
	if len(fmtLines) > maxLines {
		maxLines = len(fmtLines)
	}

	for i := 0; i < maxLines; i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}
		if origLine != fmtLine {
			if origLine != "" {
				fmt.Printf("- %s\n", origLine)
			}
			if fmtLine != "" {
				fmt.Printf("+ %s\n", fmtLine)
			}
		}
	}
}

// FormatBytes formats Wabbit source provided as bytes, for embedding.
func FormatBytes(src []byte, opts printer.Options) ([]byte, error) {
	formatted, err := formatSource(string(src), opts)
	if err != nil {
		return nil, err
	}
	return []byte(formatted), nil
}

// FormatFile formats a file in place, reporting whether it changed.
func FormatFile(filename string, opts printer.Options) (bool, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return false, err
	}
	formatted, err := FormatBytes(src, opts)
	if err != nil {
		return false, err
	}
	changed := string(src) != string(formatted)
	if changed {
		if err := os.WriteFile(filename, formatted, 0644); err != nil {
			return false, err
		}
	}
	return changed, nil
}
