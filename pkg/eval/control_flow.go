package eval

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// evalIf evaluates an if-then-else expression.
func (e *Evaluator) evalIf(expr *types.IfExpr, env value.Environment) (value.Value, error) {
	cond, err := e.evalExpr(expr.Cond, env)
	if err != nil {
		return nil, err
	}

	condBool, ok := cond.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "if condition must be a bool, got %v", cond.Type())
	}

	if condBool {
		return e.evalExpr(expr.Then, env)
	}

	return e.evalExpr(expr.Else, env)
}

// evalLet evaluates a let expression. Bindings are always mutually
// recursive: each binding's thunk closes over the same letEnv, so any
// binding may reference any other (including itself), and a binding that
// has no valid base case reports infinite recursion when forced.
func (e *Evaluator) evalLet(expr *types.LetExpr, env value.Environment) (value.Value, error) {
	letEnv := env.Extend()

	for _, binding := range expr.Bindings {
		binding := binding
		letEnv.Set(binding.Name, e.makeThunk(binding.Value, letEnv))
	}

	for _, inh := range expr.Inherits {
		e.buildInheritThunks(inh, env, letEnv.Set)
	}

	return e.evalExpr(expr.Body, letEnv)
}

// evalWith evaluates a with expression. The scope expression is itself
// suspended - "with (throw \"boom\"); 1" only fails if the body actually
// looks up a name that isn't already lexically bound.
func (e *Evaluator) evalWith(expr *types.WithExpr, env value.Environment) (value.Value, error) {
	scope := e.makeThunk(expr.Expr, env)
	withEnv := env.PushWith(scope)

	return e.evalExpr(expr.Body, withEnv)
}

// evalAssert evaluates an assert expression.
func (e *Evaluator) evalAssert(expr *types.AssertExpr, env value.Environment) (value.Value, error) {
	cond, err := e.evalExpr(expr.Cond, env)
	if err != nil {
		return nil, err
	}

	condBool, ok := cond.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "assert condition must be a bool, got %v", cond.Type())
	}

	if !condBool {
		return nil, errs.New(errs.KindAssertionFailed, "assertion failed")
	}

	return e.evalExpr(expr.Body, env)
}

// buildInheritThunks creates one lazy binding per name in inh, installing it
// via set. With no "from" source the name is looked up in outerEnv (the
// scope lexically enclosing the inherit, never the set/let being built);
// with "inherit (e) x", x is selected from e once forced.
func (e *Evaluator) buildInheritThunks(inh types.InheritClause, outerEnv value.Environment, set func(string, value.Value)) {
	if inh.From != nil {
		fromExpr := inh.From
		for _, name := range inh.Attrs {
			name := name
			set(name, value.NewThunk(func() (value.Value, error) {
				src, err := e.evalExpr(fromExpr, outerEnv)
				if err != nil {
					return nil, err
				}
				srcAttrs, ok := src.(*value.Attrs)
				if !ok {
					return nil, errs.New(errs.KindTypeError, "inherit source is not a set, got %v", src.Type())
				}
				v, ok := srcAttrs.Get(name)
				if !ok {
					return nil, errs.New(errs.KindMissingAttribute, "attribute '%s' missing", name)
				}

				return value.Force(v)
			}))
		}

		return
	}

	for _, name := range inh.Attrs {
		name := name
		set(name, value.NewThunk(func() (value.Value, error) {
			v, ok := outerEnv.Lookup(name)
			if !ok {
				return nil, errs.New(errs.KindUndefinedVariable, "undefined variable '%s'", name)
			}

			return value.Force(v)
		}))
	}
}
