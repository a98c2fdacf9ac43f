package eval

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// resolvedBinding is an AttrBinding whose path components have already been
// resolved to plain strings (dynamic "${expr}" keys are forced at this
// point, the one part of attribute-set construction that is not lazy -
// the key set of a set must be known before the set itself exists).
type resolvedBinding struct {
	path  []string
	value types.Expr
}

// evalAttrSet evaluates attribute set literals. Dotted paths (a.b.c = v) are
// merged into nested sets; every leaf value is suspended in a thunk closing
// over bindEnv, so "rec { a = 1; b = a + 1; }" resolves its self-reference
// without needing a multi-pass evaluation order.
func (e *Evaluator) evalAttrSet(expr *types.AttrSetExpr, env value.Environment) (value.Value, error) {
	bindEnv := env
	if expr.Recursive {
		bindEnv = env.Extend()
	}

	resolved := make([]resolvedBinding, 0, len(expr.Bindings))
	for _, b := range expr.Bindings {
		path, err := e.resolveAttrPath(b.Path, bindEnv)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedBinding{path: path, value: b.Value})
	}

	attrs := e.groupAndBuild(resolved, bindEnv)

	for _, inh := range expr.Inherits {
		e.buildInheritThunks(inh, env, attrs.Set)
	}

	if expr.Recursive {
		for _, k := range attrs.Keys() {
			v, _ := attrs.Get(k)
			bindEnv.Set(k, v)
		}
	}

	return attrs, nil
}

// resolveAttrPath converts AST attribute-path parts to plain strings,
// evaluating and forcing any dynamic "${expr}" component to a string now.
func (e *Evaluator) resolveAttrPath(parts []types.AttrPathPart, env value.Environment) ([]string, error) {
	out := make([]string, len(parts))
	for i, p := range parts {
		if p.Kind == types.StaticAttrPart {
			out[i] = p.Static

			continue
		}

		v, err := e.evalExpr(p.Expr, env)
		if err != nil {
			return nil, err
		}
		s, ok := v.(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "dynamic attribute name must be a string, got %v", v.Type())
		}
		out[i] = string(s)
	}

	return out, nil
}

// groupAndBuild merges resolved bindings sharing a path prefix into nested
// attribute sets and wraps each leaf value in a thunk over bindEnv. A plain
// single-component binding always wins over a partial dotted group sharing
// its name (last one encountered, matching the non-recursive case).
func (e *Evaluator) groupAndBuild(bindings []resolvedBinding, bindEnv value.Environment) *value.Attrs {
	order := make([]string, 0, len(bindings))
	leaves := map[string]types.Expr{}
	groups := map[string][]resolvedBinding{}

	for _, b := range bindings {
		key := b.path[0]
		if _, seen := leaves[key]; !seen {
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
		}

		if len(b.path) == 1 {
			leaves[key] = b.value
			delete(groups, key)

			continue
		}

		if _, ok := leaves[key]; ok {
			continue
		}
		groups[key] = append(groups[key], resolvedBinding{path: b.path[1:], value: b.value})
	}

	attrs := value.NewAttrs()
	for _, key := range order {
		if expr, ok := leaves[key]; ok {
			expr := expr
			attrs.Set(key, value.NewThunk(func() (value.Value, error) {
				return e.evalExpr(expr, bindEnv)
			}))

			continue
		}

		attrs.Set(key, e.groupAndBuild(groups[key], bindEnv))
	}

	return attrs
}
