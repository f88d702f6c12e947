// Package errors renders Wabbit diagnostics with source context, matching
// the format the teacher's compiler error reporter uses: a line-numbered
// gutter with a caret pointing at the offending column (spec.md §7).
package errors

import (
	"fmt"
	"strings"

	"github.com/wabbit-lang/wabbit/internal/token"
)

// Stage identifies which pipeline phase raised a Diagnostic.
type Stage string

const (
	Lex     Stage = "lex"
	Parse   Stage = "parse"
	Type    Stage = "type"
	Runtime Stage = "runtime"
)

// Diagnostic is a single line-numbered compiler message. It implements
// error so every stage can return diagnostics through a plain `error`.
type Diagnostic struct {
	Stage   Stage
	Pos     token.Position
	Message string
}

func New(stage Stage, pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Stage: stage, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface with the one-line form required by
// spec.md §7: `<lineno>: <message>`.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%d: %s", d.Pos.Line, d.Message)
}

// Format renders the diagnostic with a source-context gutter and caret,
// optionally colorized for a terminal.
func (d *Diagnostic) Format(source string, color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d: %s\n", d.Pos.Line, d.Message)

	line := sourceLine(source, d.Pos.Line)
	if line != "" {
		gutter := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(gutter)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(gutter)+max(d.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// List is an accumulated, ordered set of diagnostics. The checker and
// lexer never stop at the first error (spec.md §7); List is how they
// collect every one found.
type List []*Diagnostic

func (l *List) Add(d *Diagnostic) { *l = append(*l, d) }

// HasErrors reports whether any diagnostic was recorded.
func (l List) HasErrors() bool { return len(l) > 0 }

// Error implements error so a List can be returned directly from a stage.
func (l List) Error() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

// FormatAll renders every diagnostic in source order with source context.
func (l List) FormatAll(source string, color bool) string {
	var sb strings.Builder
	for _, d := range l {
		sb.WriteString(d.Format(source, color))
	}
	return sb.String()
}
