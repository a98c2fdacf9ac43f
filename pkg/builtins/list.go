package builtins

import (
	"sort"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerLists installs list primops. Several (map, filter, foldl', sort,
// all, any, concatMap, partition) apply Nix-level function arguments, so
// they go through r.host.Apply rather than calling Go code directly.
func (r *registry) registerLists() {
	r.fn("length", 1, func(a []value.Value) (value.Value, error) {
		switch v := a[0].(type) {
		case *value.List:
			return value.Int(v.Len()), nil
		case value.String:
			return value.Int(len(v)), nil
		case *value.Attrs:
			return value.Int(v.Len()), nil
		default:
			return nil, errs.New(errs.KindTypeError, "length expects a list, string, or set, got %v", v.Type())
		}
	})

	r.fn("head", 1, func(a []value.Value) (value.Value, error) {
		list, ok := a[0].(*value.List)
		if !ok || list.Len() == 0 {
			return nil, errs.New(errs.KindTypeError, "head called on an empty list or non-list")
		}

		return value.Force(list.Get(0))
	})

	r.fn("tail", 1, func(a []value.Value) (value.Value, error) {
		list, ok := a[0].(*value.List)
		if !ok || list.Len() == 0 {
			return nil, errs.New(errs.KindTypeError, "tail called on an empty list or non-list")
		}

		return value.NewList(list.Elements()[1:]...), nil
	})

	r.fn("elemAt", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[0].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "elemAt expects a list, got %v", a[0].Type())
		}
		idx, ok := a[1].(value.Int)
		if !ok || int(idx) < 0 || int(idx) >= list.Len() {
			return nil, errs.New(errs.KindTypeError, "elemAt: index %v out of bounds", a[1])
		}

		return value.Force(list.Get(int(idx)))
	})

	r.fn("elem", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "elem expects a list as second argument, got %v", a[1].Type())
		}

		needle, err := value.Force(a[0])
		if err != nil {
			return nil, err
		}

		for _, e := range list.Elements() {
			forced, err := value.Force(e)
			if err != nil {
				return nil, err
			}
			if needle.Equals(forced) {
				return value.Bool(true), nil
			}
		}

		return value.Bool(false), nil
	})

	r.fn("concatLists", 1, func(a []value.Value) (value.Value, error) {
		outer, ok := a[0].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "concatLists expects a list of lists, got %v", a[0].Type())
		}

		var elems []value.Value
		for _, inner := range outer.Elements() {
			forced, err := value.Force(inner)
			if err != nil {
				return nil, err
			}
			innerList, ok := forced.(*value.List)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "concatLists expects a list of lists, found %v", forced.Type())
			}
			elems = append(elems, innerList.Elements()...)
		}

		return value.NewList(elems...), nil
	})

	r.fn("reverseList", 1, func(a []value.Value) (value.Value, error) {
		list, ok := a[0].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "reverseList expects a list, got %v", a[0].Type())
		}
		elems := list.Elements()
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}

		return value.NewList(out...), nil
	})

	r.fn("genList", 2, func(a []value.Value) (value.Value, error) {
		n, ok := a[1].(value.Int)
		if !ok || n < 0 {
			return nil, errs.New(errs.KindTypeError, "genList expects a non-negative int length")
		}

		out := make([]value.Value, n)
		for i := range out {
			i := i
			out[i] = value.NewThunk(func() (value.Value, error) {
				return r.host.Apply(a[0], value.Int(i))
			})
		}

		return value.NewList(out...), nil
	})

	r.fn("map", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "map expects a list as second argument, got %v", a[1].Type())
		}

		elems := list.Elements()
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			e := e
			out[i] = value.NewThunk(func() (value.Value, error) {
				return r.host.Apply(a[0], e)
			})
		}

		return value.NewList(out...), nil
	})

	r.fn("filter", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "filter expects a list as second argument, got %v", a[1].Type())
		}

		var out []value.Value
		for _, e := range list.Elements() {
			keep, err := r.host.Apply(a[0], e)
			if err != nil {
				return nil, err
			}
			keepBool, ok := keep.(value.Bool)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "filter predicate must return a bool")
			}
			if keepBool {
				out = append(out, e)
			}
		}

		return value.NewList(out...), nil
	})

	r.fn("concatMap", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "concatMap expects a list as second argument, got %v", a[1].Type())
		}

		var out []value.Value
		for _, e := range list.Elements() {
			mapped, err := r.host.Apply(a[0], e)
			if err != nil {
				return nil, err
			}
			forced, err := value.Force(mapped)
			if err != nil {
				return nil, err
			}
			innerList, ok := forced.(*value.List)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "concatMap function must return a list, got %v", forced.Type())
			}
			out = append(out, innerList.Elements()...)
		}

		return value.NewList(out...), nil
	})

	r.fn("foldl'", 3, func(a []value.Value) (value.Value, error) {
		list, ok := a[2].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "foldl' expects a list as third argument, got %v", a[2].Type())
		}

		acc, err := value.Force(a[1])
		if err != nil {
			return nil, err
		}

		for _, e := range list.Elements() {
			partial, err := r.host.Apply(a[0], acc)
			if err != nil {
				return nil, err
			}
			result, err := r.host.Apply(partial, e)
			if err != nil {
				return nil, err
			}
			acc, err = value.Force(result)
			if err != nil {
				return nil, err
			}
		}

		return acc, nil
	})

	r.fn("all", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "all expects a list as second argument, got %v", a[1].Type())
		}

		for _, e := range list.Elements() {
			result, err := r.host.Apply(a[0], e)
			if err != nil {
				return nil, err
			}
			b, ok := result.(value.Bool)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "all predicate must return a bool")
			}
			if !b {
				return value.Bool(false), nil
			}
		}

		return value.Bool(true), nil
	})

	r.fn("any", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "any expects a list as second argument, got %v", a[1].Type())
		}

		for _, e := range list.Elements() {
			result, err := r.host.Apply(a[0], e)
			if err != nil {
				return nil, err
			}
			b, ok := result.(value.Bool)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "any predicate must return a bool")
			}
			if b {
				return value.Bool(true), nil
			}
		}

		return value.Bool(false), nil
	})

	r.fn("sort", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "sort expects a list as second argument, got %v", a[1].Type())
		}

		elems := append([]value.Value(nil), list.Elements()...)
		var sortErr error
		insertionSort(elems, func(x, y value.Value) bool {
			if sortErr != nil {
				return false
			}
			less, err := r.host.Apply(a[0], x)
			if err != nil {
				sortErr = err

				return false
			}
			lessApplied, err := r.host.Apply(less, y)
			if err != nil {
				sortErr = err

				return false
			}
			b, ok := lessApplied.(value.Bool)
			if !ok {
				sortErr = errs.New(errs.KindTypeError, "sort comparator must return a bool")

				return false
			}

			return bool(b)
		})
		if sortErr != nil {
			return nil, sortErr
		}

		return value.NewList(elems...), nil
	})

	r.fn("groupBy", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "groupBy expects a list as second argument, got %v", a[1].Type())
		}

		groups := map[string][]value.Value{}
		var order []string
		for _, e := range list.Elements() {
			keyV, err := r.host.Apply(a[0], e)
			if err != nil {
				return nil, err
			}
			keyForced, err := value.Force(keyV)
			if err != nil {
				return nil, err
			}
			keyStr, ok := keyForced.(value.String)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "groupBy function must return a string key")
			}
			k := string(keyStr)
			if _, exists := groups[k]; !exists {
				order = append(order, k)
			}
			groups[k] = append(groups[k], e)
		}
		sort.Strings(order)

		out := value.NewAttrs()
		for _, k := range order {
			out.Set(k, value.NewList(groups[k]...))
		}

		return out, nil
	})

	r.fn("zipAttrsWith", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "zipAttrsWith expects a list as second argument, got %v", a[1].Type())
		}

		grouped := map[string][]value.Value{}
		var order []string
		for _, e := range list.Elements() {
			forced, err := value.Force(e)
			if err != nil {
				return nil, err
			}
			attrs, ok := forced.(*value.Attrs)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "zipAttrsWith expects a list of sets, got %v", forced.Type())
			}
			for _, k := range attrs.Keys() {
				v, _ := attrs.Get(k)
				if _, exists := grouped[k]; !exists {
					order = append(order, k)
				}
				grouped[k] = append(grouped[k], v)
			}
		}
		sort.Strings(order)

		out := value.NewAttrs()
		for _, k := range order {
			k := k
			values := grouped[k]
			out.Set(k, value.NewThunk(func() (value.Value, error) {
				partial, err := r.host.Apply(a[0], value.String(k))
				if err != nil {
					return nil, err
				}

				return r.host.Apply(partial, value.NewList(values...))
			}))
		}

		return out, nil
	})

	r.fn("genericClosure", 1, func(a []value.Value) (value.Value, error) {
		attrs, ok := a[0].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "genericClosure expects a set, got %v", a[0].Type())
		}
		startSetV, ok := attrs.Get("startSet")
		if !ok {
			return nil, errs.New(errs.KindMissingAttribute, "genericClosure requires a 'startSet' attribute")
		}
		forcedStart, err := value.Force(startSetV)
		if err != nil {
			return nil, err
		}
		startList, ok := forcedStart.(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "genericClosure 'startSet' must be a list")
		}
		operator, ok := attrs.Get("operator")
		if !ok {
			return nil, errs.New(errs.KindMissingAttribute, "genericClosure requires an 'operator' attribute")
		}

		seen := map[string]bool{}
		var result []value.Value
		queue := append([]value.Value(nil), startList.Elements()...)

		for len(queue) > 0 {
			e := queue[0]
			queue = queue[1:]

			forced, err := value.Force(e)
			if err != nil {
				return nil, err
			}
			elemAttrs, ok := forced.(*value.Attrs)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "genericClosure elements must be sets with a 'key' attribute")
			}
			keyV, ok := elemAttrs.Get("key")
			if !ok {
				return nil, errs.New(errs.KindMissingAttribute, "genericClosure element missing 'key'")
			}
			forcedKey, err := value.Force(keyV)
			if err != nil {
				return nil, err
			}
			keyStr, err := ToDisplayString(forcedKey)
			if err != nil {
				return nil, err
			}
			if seen[keyStr] {
				continue
			}
			seen[keyStr] = true
			result = append(result, forced)

			nextV, err := r.host.Apply(operator, forced)
			if err != nil {
				return nil, err
			}
			forcedNext, err := value.Force(nextV)
			if err != nil {
				return nil, err
			}
			nextList, ok := forcedNext.(*value.List)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "genericClosure operator must return a list")
			}
			queue = append(queue, nextList.Elements()...)
		}

		return value.NewList(result...), nil
	})

	r.fn("partition", 2, func(a []value.Value) (value.Value, error) {
		list, ok := a[1].(*value.List)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "partition expects a list as second argument, got %v", a[1].Type())
		}

		var right, wrong []value.Value
		for _, e := range list.Elements() {
			result, err := r.host.Apply(a[0], e)
			if err != nil {
				return nil, err
			}
			b, ok := result.(value.Bool)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "partition predicate must return a bool")
			}
			if b {
				right = append(right, e)
			} else {
				wrong = append(wrong, e)
			}
		}

		out := value.NewAttrs()
		out.Set("right", value.NewList(right...))
		out.Set("wrong", value.NewList(wrong...))

		return out, nil
	})
}

// insertionSort sorts elems in place using less, stable and simple - list
// sizes in Nix expressions are small enough that O(n^2) is not a concern.
func insertionSort(elems []value.Value, less func(x, y value.Value) bool) {
	for i := 1; i < len(elems); i++ {
		for j := i; j > 0 && less(elems[j], elems[j-1]); j-- {
			elems[j-1], elems[j] = elems[j], elems[j-1]
		}
	}
}
