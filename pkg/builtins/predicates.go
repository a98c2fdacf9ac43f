package builtins

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
	"github.com/spf13/cast"
)

// registerPredicates installs the type-testing primops: isNull, isBool,
// isInt, isFloat, isString, isList, isAttrs, isFunction, isPath.
func (r *registry) registerPredicates() {
	r.fn("isNull", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(value.Null)

		return value.Bool(ok), nil
	})
	r.fn("isBool", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(value.Bool)

		return value.Bool(ok), nil
	})
	r.fn("isInt", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(value.Int)

		return value.Bool(ok), nil
	})
	r.fn("isFloat", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(value.Float)

		return value.Bool(ok), nil
	})
	r.fn("isString", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(value.String)

		return value.Bool(ok), nil
	})
	r.fn("isPath", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(value.Path)

		return value.Bool(ok), nil
	})
	r.fn("isList", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(*value.List)

		return value.Bool(ok), nil
	})
	r.fn("isAttrs", 1, func(a []value.Value) (value.Value, error) {
		_, ok := a[0].(*value.Attrs)

		return value.Bool(ok), nil
	})
	r.fn("isFunction", 1, func(a []value.Value) (value.Value, error) {
		switch a[0].(type) {
		case *value.Function, *value.Builtin:
			return value.Bool(true), nil
		default:
			return value.Bool(false), nil
		}
	})
	r.fn("typeOf", 1, func(a []value.Value) (value.Value, error) {
		switch a[0].(type) {
		case *value.Function, *value.Builtin:
			return value.String("lambda"), nil
		default:
			return value.String(a[0].Type().String()), nil
		}
	})
}

// registerConversion installs toString and the numeric coercion helpers.
func (r *registry) registerConversion() {
	r.fn("toString", 1, func(a []value.Value) (value.Value, error) {
		s, err := ToDisplayString(a[0])
		if err != nil {
			return nil, err
		}

		return value.String(s), nil
	})
	r.fn("toPath", 1, func(a []value.Value) (value.Value, error) {
		s, err := ToDisplayString(a[0])
		if err != nil {
			return nil, err
		}

		return value.Path(s), nil
	})
	r.fn("toFile", 2, func(a []value.Value) (value.Value, error) {
		name, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "toFile expects a string name, got %v", a[0].Type())
		}

		return value.Path("/nix/store/" + string(name)), nil
	})
	r.fn("string", 1, func(a []value.Value) (value.Value, error) {
		s, err := ToDisplayString(a[0])
		if err != nil {
			return nil, err
		}

		return value.String(s), nil
	})
	r.fn("int", 1, func(a []value.Value) (value.Value, error) {
		i, err := cast.ToInt64E(numericGo(a[0]))
		if err != nil {
			return nil, errs.New(errs.KindTypeError, "cannot convert %v to int", a[0].Type())
		}

		return value.Int(i), nil
	})
}

func numericGo(v value.Value) any {
	switch v := v.(type) {
	case value.Int:
		return int64(v)
	case value.Float:
		return float64(v)
	case value.String:
		return string(v)
	default:
		return v.String()
	}
}

// ToDisplayString implements "toString", Nix's string-coercion primop. It
// needs no evaluator, so unlike interpolation coercion in pkg/eval it
// coerces a set only through its "outPath" attribute; "__toString" is not
// consulted.
func ToDisplayString(v value.Value) (string, error) {
	switch v := v.(type) {
	case value.String:
		return string(v), nil
	case value.Path:
		return string(v), nil
	case value.Bool:
		if v {
			return "1", nil
		}

		return "0", nil
	case value.Null:
		return "", nil
	case value.Int:
		return cast.ToStringE(int64(v))
	case value.Float:
		return cast.ToStringE(float64(v))
	case *value.List:
		parts := make([]string, v.Len())
		for i := range parts {
			forced, err := value.Force(v.Get(i))
			if err != nil {
				return "", err
			}
			s, err := ToDisplayString(forced)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}

		return joinSpace(parts), nil
	case *value.Attrs:
		if out, ok := v.Get("outPath"); ok {
			forced, err := value.Force(out)
			if err != nil {
				return "", err
			}

			return ToDisplayString(forced)
		}

		return "", errs.New(errs.KindTypeError, "cannot coerce a set without outPath to a string")
	default:
		return "", errs.New(errs.KindTypeError, "cannot coerce %v to a string", v.Type())
	}
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}

	return out
}
