package eval

import (
	"github.com/spf13/cast"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// coerceToString implements Nix's "string context" coercion rules used by
// string interpolation and by the "+" operator (the toString builtin uses
// builtins.ToDisplayString instead): strings and paths pass
// through unchanged, numbers and booleans render as their textual form, and
// attribute sets coerce via "__toString" if present (applied to the set
// itself, then recursed on the result) or else via "outPath" (the way a
// derivation does).
func (e *Evaluator) coerceToString(v value.Value) (string, error) {
	switch x := v.(type) {
	case value.String:
		return string(x), nil
	case value.Path:
		return string(x), nil
	case value.Int:
		return cast.ToStringE(int64(x))
	case value.Float:
		return cast.ToStringE(float64(x))
	case value.Bool:
		if x {
			return "1", nil
		}

		return "0", nil
	case value.Null:
		return "", nil
	case *value.Attrs:
		if fn, ok := x.Get("__toString"); ok {
			forcedFn, err := value.Force(fn)
			if err != nil {
				return "", err
			}

			result, err := e.applyValue(forcedFn, x)
			if err != nil {
				return "", err
			}
			forcedResult, err := value.Force(result)
			if err != nil {
				return "", err
			}

			return e.coerceToString(forcedResult)
		}
		if out, ok := x.Get("outPath"); ok {
			forced, err := value.Force(out)
			if err != nil {
				return "", err
			}

			return e.coerceToString(forced)
		}

		return "", errs.New(errs.KindTypeError, "cannot coerce a set without '__toString' or 'outPath' to a string")
	case *value.List:
		parts := make([]string, x.Len())
		for i := 0; i < x.Len(); i++ {
			forced, err := value.Force(x.Get(i))
			if err != nil {
				return "", err
			}
			s, err := e.coerceToString(forced)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}

		return joinSpace(parts), nil
	default:
		return "", errs.New(errs.KindTypeError, "cannot coerce value of type %v to a string", v.Type())
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
