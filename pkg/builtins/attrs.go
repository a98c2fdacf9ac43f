package builtins

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerAttrs installs attribute-set primops.
func (r *registry) registerAttrs() {
	r.fn("attrNames", 1, func(a []value.Value) (value.Value, error) {
		attrs, ok := a[0].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "attrNames expects a set, got %v", a[0].Type())
		}

		keys := attrs.SortedKeys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			out[i] = value.String(k)
		}

		return value.NewList(out...), nil
	})

	r.fn("attrValues", 1, func(a []value.Value) (value.Value, error) {
		attrs, ok := a[0].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "attrValues expects a set, got %v", a[0].Type())
		}

		keys := attrs.SortedKeys()
		out := make([]value.Value, len(keys))
		for i, k := range keys {
			v, _ := attrs.Get(k)
			out[i] = v
		}

		return value.NewList(out...), nil
	})

	r.fn("hasAttr", 2, func(a []value.Value) (value.Value, error) {
		name, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "hasAttr expects a string name, got %v", a[0].Type())
		}
		attrs, ok := a[1].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "hasAttr expects a set, got %v", a[1].Type())
		}
		_, exists := attrs.Get(string(name))

		return value.Bool(exists), nil
	})

	r.fn("getAttr", 2, func(a []value.Value) (value.Value, error) {
		name, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "getAttr expects a string name, got %v", a[0].Type())
		}
		attrs, ok := a[1].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "getAttr expects a set, got %v", a[1].Type())
		}
		v, exists := attrs.Get(string(name))
		if !exists {
			return nil, errs.New(errs.KindMissingAttribute, "attribute '%s' missing", name)
		}

		return value.Force(v)
	})

	r.fn("removeAttrs", 2, func(a []value.Value) (value.Value, error) {
		attrs, ok := a[0].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "removeAttrs expects a set, got %v", a[0].Type())
		}
		names, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "removeAttrs expects a list of names, got %v", a[1].Type())
		}

		drop := map[string]bool{}
		for _, n := range names.Elements() {
			forced, err := value.Force(n)
			if err != nil {
				return nil, err
			}
			s, ok := forced.(value.String)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "removeAttrs names must be strings")
			}
			drop[string(s)] = true
		}

		out := value.NewAttrs()
		for _, k := range attrs.Keys() {
			if drop[k] {
				continue
			}
			v, _ := attrs.Get(k)
			out.Set(k, v)
		}

		return out, nil
	})

	r.fn("intersectAttrs", 2, func(a []value.Value) (value.Value, error) {
		e1, ok := a[0].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "intersectAttrs expects a set, got %v", a[0].Type())
		}
		e2, ok := a[1].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "intersectAttrs expects a set, got %v", a[1].Type())
		}

		out := value.NewAttrs()
		for _, k := range e2.Keys() {
			if v, ok := e1.Get(k); ok {
				out.Set(k, v)
			}
		}

		return out, nil
	})

	r.fn("catAttrs", 2, func(a []value.Value) (value.Value, error) {
		name, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "catAttrs expects a string name, got %v", a[0].Type())
		}
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "catAttrs expects a list of sets, got %v", a[1].Type())
		}

		var out []value.Value
		for _, e := range list.Elements() {
			forced, err := value.Force(e)
			if err != nil {
				return nil, err
			}
			attrs, ok := forced.(*value.Attrs)
			if !ok {
				continue
			}
			if v, ok := attrs.Get(string(name)); ok {
				out = append(out, v)
			}
		}

		return value.NewList(out...), nil
	})

	r.fn("mapAttrs", 2, func(a []value.Value) (value.Value, error) {
		attrs, ok := a[1].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "mapAttrs expects a set as second argument, got %v", a[1].Type())
		}

		out := value.NewAttrs()
		for _, k := range attrs.Keys() {
			k := k
			v, _ := attrs.Get(k)
			out.Set(k, value.NewThunk(func() (value.Value, error) {
				partial, err := r.host.Apply(a[0], value.String(k))
				if err != nil {
					return nil, err
				}

				return r.host.Apply(partial, v)
			}))
		}

		return out, nil
	})

	r.fn("functionArgs", 1, func(a []value.Value) (value.Value, error) {
		if _, isBuiltin := a[0].(*value.Builtin); isBuiltin {
			return value.NewAttrs(), nil
		}
		fn, ok := a[0].(*value.Function)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "functionArgs expects a function, got %v", a[0].Type())
		}

		out := value.NewAttrs()
		if pattern := fn.Pattern(); pattern != nil {
			for _, formal := range pattern.Formals {
				out.Set(formal.Name, value.Bool(formal.Default != nil))
			}
		}

		return out, nil
	})

	r.fn("listToAttrs", 1, func(a []value.Value) (value.Value, error) {
		list, ok := a[0].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "listToAttrs expects a list of {name,value} sets, got %v", a[0].Type())
		}

		out := value.NewAttrs()
		for _, e := range list.Elements() {
			forced, err := value.Force(e)
			if err != nil {
				return nil, err
			}
			entry, ok := forced.(*value.Attrs)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "listToAttrs expects {name,value} sets, got %v", forced.Type())
			}
			nameVal, ok := entry.Get("name")
			if !ok {
				return nil, errs.New(errs.KindMissingAttribute, "listToAttrs entry missing 'name'")
			}
			name, err := value.Force(nameVal)
			if err != nil {
				return nil, err
			}
			nameStr, ok := name.(value.String)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "listToAttrs 'name' must be a string")
			}
			val, ok := entry.Get("value")
			if !ok {
				return nil, errs.New(errs.KindMissingAttribute, "listToAttrs entry missing 'value'")
			}
			if _, exists := out.Get(string(nameStr)); !exists {
				out.Set(string(nameStr), val)
			}
		}

		return out, nil
	})
}
