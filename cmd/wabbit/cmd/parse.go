package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wabbit-lang/wabbit/internal/ast"
	"github.com/wabbit-lang/wabbit/internal/parser"
	"github.com/wabbit-lang/wabbit/internal/printer"
)

var (
	parseEval   string
	parsePretty bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Wabbit program and display its AST",
	Long: `Parse a Wabbit program and print its Abstract Syntax Tree in a
debug form, one node per line.

Use --pretty instead to print the round-tripped canonical source
rendered by the internal printer.

Examples:
  wabbit parse program.wb
  wabbit parse -e "func main() { print 1 + 2; }"
  wabbit parse --pretty program.wb`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline source instead of reading from a file")
	parseCmd.Flags().BoolVar(&parsePretty, "pretty", false, "print the round-tripped canonical source instead of the raw AST")
}

func runParse(cmd *cobra.Command, args []string) error {
	src, _, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	p := parser.New(src)
	prog := p.ParseProgram()

	if diags := p.Errors(); diags.HasErrors() {
		return fmt.Errorf("%s", diags.FormatAll(src, false))
	}

	if parsePretty {
		fmt.Print(printer.New(printer.DefaultOptions()).Print(prog))
		return nil
	}

	dumpProgram(prog)
	return nil
}

func dumpProgram(prog *ast.Program) {
	fmt.Printf("Program (%d item(s))\n", len(prog.Items))
	for _, item := range prog.Items {
		dumpNode(item, 1)
	}
}

func dumpNode(node ast.Node, depth int) {
	pad := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *ast.FuncDecl:
		fmt.Printf("%sFuncDecl %s(%s) %s\n", pad, n.Name, formatParams(n.Params), n.ReturnType)
		dumpNode(n.Body, depth+1)
	case *ast.VarDecl:
		fmt.Printf("%sVarDecl %s %s\n", pad, n.Name, n.TypeName)
		if n.Value != nil {
			dumpNode(n.Value, depth+1)
		}
	case *ast.ConstDecl:
		fmt.Printf("%sConstDecl %s %s\n", pad, n.Name, n.TypeName)
		dumpNode(n.Value, depth+1)
	case *ast.Block:
		fmt.Printf("%sBlock (%d stmt(s))\n", pad, len(n.Stmts))
		for _, s := range n.Stmts {
			dumpNode(s, depth+1)
		}
	case *ast.PrintStmt:
		fmt.Printf("%sPrintStmt\n", pad)
		dumpNode(n.X, depth+1)
	case *ast.AssignStmt:
		fmt.Printf("%sAssignStmt %s\n", pad, n.Name)
		dumpNode(n.Value, depth+1)
	case *ast.ExprStmt:
		fmt.Printf("%sExprStmt\n", pad)
		dumpNode(n.X, depth+1)
	case *ast.IfStmt:
		fmt.Printf("%sIfStmt\n", pad)
		dumpNode(n.Cond, depth+1)
		dumpNode(n.Then, depth+1)
		if n.Else != nil {
			dumpNode(n.Else, depth+1)
		}
	case *ast.WhileStmt:
		fmt.Printf("%sWhileStmt\n", pad)
		dumpNode(n.Cond, depth+1)
		dumpNode(n.Body, depth+1)
	case *ast.BreakStmt:
		fmt.Printf("%sBreakStmt\n", pad)
	case *ast.ContinueStmt:
		fmt.Printf("%sContinueStmt\n", pad)
	case *ast.ReturnStmt:
		fmt.Printf("%sReturnStmt\n", pad)
		if n.Value != nil {
			dumpNode(n.Value, depth+1)
		}
	case *ast.BinaryExpr:
		fmt.Printf("%sBinaryExpr %s\n", pad, n.Op)
		dumpNode(n.Left, depth+1)
		dumpNode(n.Right, depth+1)
	case *ast.UnaryExpr:
		fmt.Printf("%sUnaryExpr %s\n", pad, n.Op)
		dumpNode(n.X, depth+1)
	case *ast.CallExpr:
		fmt.Printf("%sCallExpr %s (%d arg(s))\n", pad, n.Name, len(n.Args))
		for _, a := range n.Args {
			dumpNode(a, depth+1)
		}
	case *ast.CompoundExpr:
		fmt.Printf("%sCompoundExpr (%d stmt(s))\n", pad, len(n.Stmts))
		for _, s := range n.Stmts {
			dumpNode(s, depth+1)
		}
		dumpNode(n.Result, depth+1)
	case *ast.Ident:
		fmt.Printf("%sIdent %s\n", pad, n.Name)
	case *ast.IntegerLit:
		fmt.Printf("%sIntegerLit %d\n", pad, n.Value)
	case *ast.FloatLit:
		fmt.Printf("%sFloatLit %g\n", pad, n.Value)
	case *ast.CharLit:
		fmt.Printf("%sCharLit %q\n", pad, n.Value)
	case *ast.BoolLit:
		fmt.Printf("%sBoolLit %v\n", pad, n.Value)
	case *ast.UnitLit:
		fmt.Printf("%sUnitLit\n", pad)
	default:
		fmt.Printf("%s%T\n", pad, node)
	}
}

func formatParams(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.TypeName
	}
	return strings.Join(parts, ", ")
}
