package eval

import (
	"os"
	"path/filepath"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/builtins"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

// registerBuiltins populates e.builtins from pkg/builtins's standard
// library, then additionally exposes it as the "builtins" attribute set
// (so both "toString x" and "builtins.toString x" work, matching Nix).
func (e *Evaluator) registerBuiltins() {
	all, topLevel := builtins.All(e)

	builtinsAttrs := value.NewAttrs()
	for name, v := range all {
		builtinsAttrs.Set(name, v)
	}
	e.builtins["builtins"] = builtinsAttrs

	for _, name := range topLevel {
		if v, ok := all[name]; ok {
			e.builtins[name] = v
		}
	}
}

// Apply implements builtins.Applier, letting the builtins package invoke
// Nix-level function arguments (map, filter, foldl', sort, ...) without
// importing pkg/eval.
func (e *Evaluator) Apply(fn, arg value.Value) (value.Value, error) {
	return e.applyValue(fn, arg)
}

// Import implements builtins.Importer ("import <path>"): the target file is
// lexed, parsed, and evaluated fresh, forced to a concrete value.
func (e *Evaluator) Import(path string) (value.Value, error) {
	resolved := e.resolvePath(path)

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, err)
	}

	l := lexer.New(string(data))
	p := parser.New(l)
	expr, err := p.Parse()
	if err != nil {
		return nil, errs.Wrap(errs.KindSyntax, err)
	}

	sub := New(filepath.Dir(resolved))
	for name, v := range e.builtins {
		sub.builtins[name] = v
	}

	return sub.Eval(expr)
}

// BaseDir implements builtins.Host.
func (e *Evaluator) BaseDir() string { return e.baseDir }
