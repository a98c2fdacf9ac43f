package eval

import (
	"path/filepath"
	"strings"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// Evaluator implements the semantic evaluation engine for Nix expressions.
// It traverses Abstract Syntax Trees (ASTs) and computes their runtime values,
// implementing lazy (call-by-need) evaluation: attribute sets, lists, let
// bindings, and function arguments suspend their values in Thunks that are
// only forced the first time something actually demands them.
type Evaluator struct {
	baseDir  string                 // Base directory for resolving relative paths
	builtins map[string]value.Value // Built-in functions and constants
}

// New creates a new evaluator instance with the specified base directory.
// The base directory is used for resolving relative path literals in expressions.
func New(baseDir string) *Evaluator {
	e := &Evaluator{
		baseDir:  baseDir,
		builtins: make(map[string]value.Value),
	}
	e.registerBuiltins()

	return e
}

// Eval evaluates a Nix expression in a fresh environment populated with
// every registered builtin, forcing the result to a concrete value.
func (e *Evaluator) Eval(expr types.Expr) (value.Value, error) {
	env := value.NewEnv()
	for name, builtin := range e.builtins {
		env.Set(name, builtin)
	}

	v, err := e.evalExpr(expr, env)
	if err != nil {
		return nil, err
	}

	return value.Force(v)
}

// EvalWithEnv evaluates an expression in an existing environment, e.g. the
// body of a function or a REPL line sharing a prior session's bindings.
func (e *Evaluator) EvalWithEnv(expr types.Expr, env value.Environment) (value.Value, error) {
	v, err := e.evalExpr(expr, env)
	if err != nil {
		return nil, err
	}

	return value.Force(v)
}

// makeThunk suspends expr's evaluation in env. Used at every point the Nix
// semantics demand laziness: list elements, attribute values, let bindings,
// and function-call arguments.
func (e *Evaluator) makeThunk(expr types.Expr, env value.Environment) *value.Thunk {
	return value.NewThunk(func() (value.Value, error) {
		return e.evalExpr(expr, env)
	})
}

// evalExpr is the central evaluation dispatcher. It always returns a forced
// (non-Thunk) value; laziness comes from callers choosing when to invoke it,
// not from evalExpr itself withholding work.
func (e *Evaluator) evalExpr(expr types.Expr, env value.Environment) (value.Value, error) {
	switch expr := expr.(type) {
	case *types.IntExpr:
		return value.Int(expr.Value), nil
	case *types.FloatExpr:
		return value.Float(expr.Value), nil
	case *types.StringExpr:
		return value.String(expr.Value), nil
	case *types.BoolExpr:
		return value.Bool(expr.Value), nil
	case *types.NullExpr:
		return value.Null{}, nil
	case *types.PathExpr:
		return value.Path(e.resolvePath(expr.Value)), nil
	case *types.URIExpr:
		return value.String(expr.Value), nil
	case *types.InterpStringExpr:
		return e.evalInterpString(expr, env)

	case *types.IdentExpr:
		return e.evalIdent(expr.Name, env)

	case *types.ListExpr:
		return e.evalList(expr, env)
	case *types.AttrSetExpr:
		return e.evalAttrSet(expr, env)

	case *types.BinaryExpr:
		return e.evalBinary(expr, env)
	case *types.UnaryExpr:
		return e.evalUnary(expr, env)

	case *types.IfExpr:
		return e.evalIf(expr, env)
	case *types.LetExpr:
		return e.evalLet(expr, env)
	case *types.WithExpr:
		return e.evalWith(expr, env)
	case *types.AssertExpr:
		return e.evalAssert(expr, env)

	case *types.FunctionExpr:
		if expr.Pattern != nil {
			return value.NewPatternFunction(expr.Pattern, expr.Body, env), nil
		}

		return value.NewFunction(expr.Param, expr.Body, env), nil

	case *types.ApplyExpr:
		return e.evalApply(expr, env)

	case *types.SelectExpr:
		return e.evalSelect(expr, env)
	case *types.HasAttrExpr:
		return e.evalHasAttr(expr, env)

	default:
		return nil, errs.New(errs.KindTypeError, "unknown expression type: %T", expr)
	}
}

// evalIdent resolves variable references, consulting "with" scopes only
// after every lexical binding has failed to match.
func (e *Evaluator) evalIdent(name string, env value.Environment) (value.Value, error) {
	val, ok := env.Lookup(name)
	if !ok {
		return nil, errs.New(errs.KindUndefinedVariable, "undefined variable '%s'%s",
			name, suggestForUndefined(name, env))
	}

	return value.Force(val)
}

// evalList evaluates list literals; each element is suspended in a thunk so
// that e.g. "builtins.length [ (throw \"boom\") 1 ]" still succeeds.
func (e *Evaluator) evalList(expr *types.ListExpr, env value.Environment) (value.Value, error) {
	elements := make([]value.Value, len(expr.Elements))
	for i, elem := range expr.Elements {
		elements[i] = e.makeThunk(elem, env)
	}

	return value.NewList(elements...), nil
}

// evalInterpString evaluates a "...${expr}..." interpolated string literal,
// coercing each embedded expression's value to its string form.
func (e *Evaluator) evalInterpString(expr *types.InterpStringExpr, env value.Environment) (value.Value, error) {
	var b strings.Builder
	b.WriteString(expr.Literals[0])

	for i, sub := range expr.Exprs {
		v, err := e.evalExpr(sub, env)
		if err != nil {
			return nil, err
		}
		s, err := e.coerceToString(v)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
		if i+1 < len(expr.Literals) {
			b.WriteString(expr.Literals[i+1])
		}
	}

	return value.String(b.String()), nil
}

// resolvePath resolves path literals against the evaluator's base directory.
func (e *Evaluator) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(e.baseDir, path)
}

// suggestForUndefined returns a short " did you mean 'x'?" hint using fuzzy
// matching over the names reachable from env's lexical bindings, or "" when
// no close match exists. Purely cosmetic; never changes evaluation outcome.
func suggestForUndefined(name string, env value.Environment) string {
	candidates := lexicalNames(env)
	best := fuzzySuggest(name, candidates)
	if best == "" {
		return ""
	}

	return ", did you mean '" + best + "'?"
}

// lexicalNames collects every name bound in env's own frame chain, used only
// to power undefined-variable suggestions.
func lexicalNames(env value.Environment) []string {
	e, ok := env.(*value.Env)
	if !ok {
		return nil
	}

	var names []string
	seen := map[string]bool{}
	for cur := e; cur != nil; cur = cur.Parent() {
		for _, n := range cur.OwnNames() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	return names
}
