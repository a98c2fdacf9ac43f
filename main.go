// Package main implements the gix command-line interface.
//
// gix is a pure Go implementation of the Nix expression language
// interpreter: a lexer, parser, lazy evaluator, store-path hasher, and flake
// orchestration driver. The CLI is a cobra command tree with subcommands for
// expression/file evaluation, derivation building, flake inspection, and an
// interactive REPL, plus debug flags that expose the lexer/parser stages
// directly.
//
// Examples:
//
//	gix eval -e '1 + 2'
//	gix eval file.nix
//	gix eval --ast -e 'let x = 5; in x * 2'
//	gix build 'derivation { name = "hello"; system = "x86_64-linux"; builder = "/bin/sh"; }'
//	gix flake show ./path/to/flake
//	gix repl
//
// "gix -e EXPR", "gix -i", and "gix file.nix" remain as root-level aliases
// for "gix eval -e EXPR", "gix repl", and "gix eval file.nix" respectively.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/repl"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/builtins"
	"github.com/conneroisu/gix/pkg/derivation"
	"github.com/conneroisu/gix/pkg/eval"
	"github.com/conneroisu/gix/pkg/flake"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an errs.Kind to a CLI exit code: parse/syntax errors get
// one code, every other evaluation-time failure gets another, matching
// "non-zero on evaluation/build/parse error" without distinguishing further.
func exitCodeFor(err error) int {
	var e *errs.Error
	if as, ok := err.(*errs.Error); ok {
		e = as
	}
	if e != nil && e.Kind == errs.KindSyntax {
		return 2
	}

	return 1
}

func newRootCmd() *cobra.Command {
	var (
		exprFlag    string
		interactive bool
	)

	root := &cobra.Command{
		Use:   "gix [file]",
		Short: "gix is a pure Go implementation of the Nix expression language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case exprFlag != "":
				return runEval(cmd.OutOrStdout(), exprFlag, ".", debugFlags{})
			case interactive:
				return repl.New("nix-repl> ", version).Start(cmd.OutOrStdout())
			case len(args) == 1:
				return evalFile(cmd.OutOrStdout(), args[0], debugFlags{})
			default:
				return cmd.Help()
			}
		},
	}

	root.Flags().StringVarP(&exprFlag, "expr", "e", "", "evaluate an expression (alias for 'gix eval -e')")
	root.Flags().BoolVarP(&interactive, "interactive", "i", false, "start an interactive REPL (alias for 'gix repl')")

	root.AddCommand(newEvalCmd(), newBuildCmd(), newFlakeCmd(), newReplCmd())

	return root
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.New("nix-repl> ", version).Start(cmd.OutOrStdout())
		},
	}
}

// debugFlags selects which pipeline stage's intermediate output to print
// instead of evaluating, per SPEC_FULL.md's --lex/--parse/--ast switches.
type debugFlags struct {
	lex   bool
	parse bool
	ast   bool
}

func newEvalCmd() *cobra.Command {
	var (
		exprFlag string
		flags    debugFlags
	)

	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate a Nix expression or file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if exprFlag != "" {
				return runEval(cmd.OutOrStdout(), exprFlag, ".", flags)
			}
			if len(args) == 0 {
				return fmt.Errorf("eval requires a file argument or -e EXPR")
			}

			return evalFile(cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&exprFlag, "expr", "e", "", "evaluate an expression instead of a file")
	cmd.Flags().BoolVar(&flags.lex, "lex", false, "print the token stream and exit")
	cmd.Flags().BoolVar(&flags.parse, "parse", false, "print the raw AST and exit")
	cmd.Flags().BoolVar(&flags.ast, "ast", false, "print a pretty-printed AST and exit")

	return cmd
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <installable>",
		Short: "Build the derivation an expression evaluates to, printing its store path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), args[0])
		},
	}
}

func newFlakeCmd() *cobra.Command {
	flakeCmd := &cobra.Command{
		Use:   "flake",
		Short: "Inspect and lock flakes",
	}

	flakeCmd.AddCommand(
		&cobra.Command{
			Use:   "show [path]",
			Short: "Show a flake's resolved outputs",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFlakeShow(cmd.OutOrStdout(), flakeDirArg(args))
			},
		},
		&cobra.Command{
			Use:   "metadata [path]",
			Short: "Show a flake's description and resolved input revisions",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFlakeMetadata(cmd.OutOrStdout(), flakeDirArg(args))
			},
		},
		&cobra.Command{
			Use:   "lock [path]",
			Short: "Resolve a flake's inputs and write flake.lock",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFlakeLock(cmd.OutOrStdout(), flakeDirArg(args))
			},
		},
	)

	return flakeCmd
}

func flakeDirArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}

	return "."
}

func runEval(w io.Writer, source, baseDir string, flags debugFlags) error {
	if flags.lex {
		return printTokens(w, source)
	}

	l := lexer.New(source)
	p := parser.New(l)
	ast, err := p.Parse()
	if err != nil {
		return errs.Wrap(errs.KindSyntax, err)
	}

	if flags.parse {
		fmt.Fprintln(w, ast.String())

		return nil
	}
	if flags.ast {
		return printAST(w, ast, 0)
	}

	e := eval.New(baseDir)
	result, err := e.Eval(ast)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, result.String())

	return nil
}

func evalFile(w io.Writer, filename string, flags debugFlags) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return errs.Wrap(errs.KindIO, err)
	}

	return runEval(w, string(content), filepath.Dir(filename), flags)
}

func printTokens(w io.Writer, source string) error {
	l := lexer.New(source)
	for {
		tok := l.NextToken()
		fmt.Fprintf(w, "%-12s %q (line %d, col %d)\n", tok.Type, tok.Literal, tok.Line, tok.Column)
		if tok.Type == lexer.TOKEN_EOF {
			return nil
		}
	}
}

// printAST writes one line for expr, indented by depth: its Go type and its
// String() rendering. internal/types exposes no node-children walker, so
// child nodes get no lines of their own; this is a debug aid, not a stable
// format.
func printAST(w io.Writer, expr types.Expr, depth int) error {
	indent := ""
	for range depth {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%T: %s\n", indent, expr, expr.String())

	return nil
}

func runBuild(w io.Writer, source string) error {
	l := lexer.New(source)
	p := parser.New(l)
	ast, err := p.Parse()
	if err != nil {
		return errs.Wrap(errs.KindSyntax, err)
	}

	e := eval.New(".")
	result, err := e.Eval(ast)
	if err != nil {
		return err
	}

	attrs, ok := result.(*value.Attrs)
	if !ok {
		return errs.New(errs.KindTypeError, "build target must evaluate to a derivation attribute set, got %s", result.Type())
	}

	drv, err := derivation.FromAttrs(attrs, builtins.ToDisplayString)
	if err != nil {
		return err
	}

	for _, name := range sortedOutputNames(drv) {
		fmt.Fprintf(w, "%s -> %s\n", name, drv.Outputs[name])
	}
	fmt.Fprintf(w, "drvPath -> %s\n", drv.DrvPath)

	return nil
}

func runFlakeShow(w io.Writer, dir string) error {
	result, err := flake.Resolve(dir, flake.NewRegistryFetcher(dir, nil))
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	for _, k := range result.Outputs.Keys() {
		fmt.Fprintf(w, "%s\n", k)
	}

	return nil
}

func runFlakeMetadata(w io.Writer, dir string) error {
	result, err := flake.Resolve(dir, flake.NewRegistryFetcher(dir, nil))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "description: %s\n", result.Root.Description)
	for _, name := range sortedResolvedInputNames(result) {
		ri := result.Inputs[name]
		fmt.Fprintf(w, "  %s: %s (rev %s)\n", name, ri.OutPath, ri.Rev)
	}

	return nil
}

func runFlakeLock(w io.Writer, dir string) error {
	result, err := flake.Resolve(dir, flake.NewRegistryFetcher(dir, nil))
	if err != nil {
		return err
	}

	lock := flake.BuildLock(result)
	store := flake.FileLockStore{}
	lockPath := filepath.Join(dir, "flake.lock")
	if err := store.Save(lockPath, lock); err != nil {
		return err
	}

	fmt.Fprintf(w, "wrote %s\n", lockPath)

	return nil
}

func sortedResolvedInputNames(result *flake.Result) []string {
	names := make([]string, 0, len(result.Inputs))
	for n := range result.Inputs {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

func sortedOutputNames(d *derivation.Derivation) []string {
	names := make([]string, 0, len(d.Outputs))
	for n := range d.Outputs {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
