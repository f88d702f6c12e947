package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wabbit-lang/wabbit/internal/cemit"
	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/transform"
	"github.com/wabbit-lang/wabbit/internal/types"
	"github.com/wabbit-lang/wabbit/internal/wasmemit"
)

// emitTargets is the value of --emit-only: a comma-separated subset of
// {c, wasm}, parsed directly with pflag rather than cobra's flag helpers
// since it's a bare multi-value string set, not a struct-backed option.
var emitTargets []string

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a Wabbit program to C and WebAssembly",
	Long: `Lex, parse, type-check, optimize, and lower a Wabbit program to both
a C translation unit and a binary WebAssembly module.

Output is written to langc/<name>.c and wasm/<name>.wasm, relative to
the current directory, where <name> is the input file's base name
without extension. Use --emit-only to restrict output to one back end.

Examples:
  wabbit build program.wb
  wabbit build --emit-only=c program.wb
  wabbit build --emit-only=c,wasm program.wb`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	flags := pflag.NewFlagSet("build-emit", pflag.ContinueOnError)
	flags.StringSliceVar(&emitTargets, "emit-only", []string{"c", "wasm"}, "back end(s) to emit: c, wasm")
	buildCmd.Flags().AddFlagSet(flags)
}

func runBuild(cmd *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	src := string(content)

	wantC, wantWasm, err := parseEmitTargets(emitTargets)
	if err != nil {
		return err
	}

	p := parser.New(src)
	prog := p.ParseProgram()
	if diags := p.Errors(); diags.HasErrors() {
		return fmt.Errorf("%s", diags.FormatAll(src, false))
	}

	if diags, ok := types.Check(prog); !ok {
		return fmt.Errorf("%s", diags.FormatAll(src, false))
	}

	optimized := transform.Program(prog)

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	if wantC {
		out := cemit.Program(optimized)
		path, err := writeBuildOutput("langc", base+".c", out)
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		}
	}

	if wantWasm {
		out := wasmemit.Program(optimized)
		path, err := writeBuildOutput("wasm", base+".wasm", string(out))
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		}
	}

	return nil
}

func parseEmitTargets(targets []string) (wantC, wantWasm bool, err error) {
	for _, t := range targets {
		switch t {
		case "c":
			wantC = true
		case "wasm":
			wantWasm = true
		default:
			return false, false, fmt.Errorf("unknown --emit-only target %q (want c or wasm)", t)
		}
	}
	return wantC, wantWasm, nil
}

func writeBuildOutput(dir, name, contents string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
