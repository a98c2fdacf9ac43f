// Package repl implements the interactive Read-Eval-Print Loop for gix.
//
// It wraps the lexer/parser/evaluator pipeline with readline-backed line
// editing and history, and color-codes results versus errors so a terminal
// session is easy to scan.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/conneroisu/gix/pkg/eval"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

var (
	promptColor = color.New(color.FgCyan)
	resultColor = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
	bannerColor = color.New(color.FgGreen)
)

// Repl is a configured interactive session.
type Repl struct {
	Prompt  string
	Version string
}

// New creates a Repl with the given prompt and version banner.
func New(prompt, version string) *Repl {
	return &Repl{Prompt: prompt, Version: version}
}

// Start runs the REPL loop against stdin/stdout until the user exits
// (":quit", ":q", or EOF). One evaluator serves every line, but each line is
// evaluated in a fresh environment holding only the builtins, so nothing
// bound on one line is visible on the next.
func (r *Repl) Start(writer io.Writer) error {
	bannerColor.Fprintf(writer, "gix %s - a Nix expression language interpreter\n", r.Version)
	promptColor.Fprintln(writer, "Type :quit to exit, :help for REPL commands")

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	e := eval.New(".")

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Goodbye!\n"))

			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == ":quit" || line == ":q" {
			writer.Write([]byte("Goodbye!\n"))

			return nil
		}
		if strings.HasPrefix(line, ":") {
			r.handleCommand(writer, line)

			continue
		}

		rl.SaveHistory(line)
		r.evalLine(writer, e, line)
	}
}

func (r *Repl) evalLine(writer io.Writer, e *eval.Evaluator, line string) {
	l := lexer.New(line)
	p := parser.New(l)
	ast, err := p.Parse()
	if err != nil {
		errorColor.Fprintf(writer, "parse error: %v\n", err)

		return
	}

	result, err := e.Eval(ast)
	if err != nil {
		errorColor.Fprintf(writer, "evaluation error: %v\n", err)

		return
	}

	resultColor.Fprintf(writer, "%s\n", result.String())
}

func (r *Repl) handleCommand(writer io.Writer, cmd string) {
	switch cmd {
	case ":help", ":h":
		promptColor.Fprintln(writer, "Available commands:")
		promptColor.Fprintln(writer, "  :help, :h    Show this help")
		promptColor.Fprintln(writer, "  :quit, :q    Exit the REPL")
	default:
		errorColor.Fprintf(writer, "unknown command: %s\n", cmd)
	}
}
