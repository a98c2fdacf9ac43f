package eval

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// evalApply evaluates function application "f x". The argument is
// suspended, not evaluated eagerly: a lambda that never touches its
// parameter never forces it.
func (e *Evaluator) evalApply(expr *types.ApplyExpr, env value.Environment) (value.Value, error) {
	fnVal, err := e.evalExpr(expr.Func, env)
	if err != nil {
		return nil, err
	}

	arg := e.makeThunk(expr.Arg, env)

	return e.applyValue(fnVal, arg)
}

// applyValue applies fnVal to a single (possibly still-thunked) argument.
func (e *Evaluator) applyValue(fnVal value.Value, arg value.Value) (value.Value, error) {
	switch fn := fnVal.(type) {
	case *value.Function:
		fnEnv := fn.Env().Extend()

		if fn.Pattern() != nil {
			if err := e.bindPattern(fn.Pattern(), arg, fnEnv); err != nil {
				return nil, err
			}
		} else {
			fnEnv.Set(fn.Param(), arg)
		}

		return e.evalExpr(fn.Body(), fnEnv)

	case *value.Builtin:
		result, err := fn.Apply(arg)
		if err != nil {
			return nil, err
		}

		return value.Force(result)

	default:
		return nil, errs.New(errs.KindTypeError, "value of type %v is not callable", fnVal.Type())
	}
}

// bindPattern destructures arg (forced to an attribute set) into fnEnv
// according to p: every named formal is bound (falling back to its default
// expression, evaluated lazily in fnEnv so defaults can reference siblings),
// a bare "..." tolerates extra attributes, and an "@"-alias binds the whole
// original set.
func (e *Evaluator) bindPattern(p *types.Pattern, arg value.Value, fnEnv value.Environment) error {
	argVal, err := value.Force(arg)
	if err != nil {
		return err
	}

	attrs, ok := argVal.(*value.Attrs)
	if !ok {
		return errs.New(errs.KindTypeError, "function pattern requires a set argument, got %v", argVal.Type())
	}

	provided := make(map[string]bool, len(p.Formals))
	for _, f := range p.Formals {
		f := f
		v, has := attrs.Get(f.Name)
		provided[f.Name] = true

		if has {
			fnEnv.Set(f.Name, v)

			continue
		}

		if f.Default == nil {
			return errs.New(errs.KindMissingAttribute, "function called without required argument '%s'", f.Name)
		}

		fnEnv.Set(f.Name, value.NewThunk(func() (value.Value, error) {
			return e.evalExpr(f.Default, fnEnv)
		}))
	}

	if !p.Ellipsis {
		for _, k := range attrs.Keys() {
			if !provided[k] {
				return errs.New(errs.KindTypeError, "function called with unexpected argument '%s'", k)
			}
		}
	}

	if p.Name != "" {
		fnEnv.Set(p.Name, argVal)
	}

	return nil
}

// evalSelect evaluates attribute selection "e.a.b", falling back to the
// "or default" expression when any component is missing or the base isn't a
// set. Only the shells along the path are forced; the final selected value
// is forced too since its result must be a concrete value.
func (e *Evaluator) evalSelect(expr *types.SelectExpr, env value.Environment) (value.Value, error) {
	current, err := e.evalExpr(expr.Expr, env)
	if err != nil {
		return nil, err
	}

	for i, key := range expr.AttrPath {
		attrs, ok := current.(*value.Attrs)
		if !ok {
			if expr.Default != nil {
				return e.evalExpr(expr.Default, env)
			}

			return nil, errs.New(errs.KindTypeError, "cannot select attribute '%s' from %v", key, current.Type())
		}

		next, ok := attrs.Get(key)
		if !ok {
			if expr.Default != nil {
				return e.evalExpr(expr.Default, env)
			}

			return nil, errs.New(errs.KindMissingAttribute, "attribute '%s' missing", key)
		}

		if i == len(expr.AttrPath)-1 {
			return value.Force(next)
		}

		forced, err := value.Force(next)
		if err != nil {
			return nil, err
		}
		current = forced
	}

	return current, nil
}

// evalHasAttr evaluates the "?" attribute existence test.
func (e *Evaluator) evalHasAttr(expr *types.HasAttrExpr, env value.Environment) (value.Value, error) {
	current, err := e.evalExpr(expr.Expr, env)
	if err != nil {
		return nil, err
	}

	for i, key := range expr.AttrPath {
		attrs, ok := current.(*value.Attrs)
		if !ok {
			return value.Bool(false), nil
		}

		next, ok := attrs.Get(key)
		if !ok {
			return value.Bool(false), nil
		}

		if i == len(expr.AttrPath)-1 {
			return value.Bool(true), nil
		}

		forced, err := value.Force(next)
		if err != nil {
			return value.Bool(false), nil
		}
		current = forced
	}

	return value.Bool(true), nil
}
