package builtins

import (
	"math"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerMath installs the numeric primops. Unlike the "+ - * /"
// operators (which promote int/int to float), the source-level add/sub/mul/
// div/lessThan primops accept integers only - an asymmetry inherited
// unchanged from upstream Nix, whose rationale is unclear.
func (r *registry) registerMath() {
	r.fn("add", 2, func(a []value.Value) (value.Value, error) { return arith(a[0], a[1], '+') })
	r.fn("sub", 2, func(a []value.Value) (value.Value, error) { return arith(a[0], a[1], '-') })
	r.fn("mul", 2, func(a []value.Value) (value.Value, error) { return arith(a[0], a[1], '*') })
	r.fn("div", 2, func(a []value.Value) (value.Value, error) { return arith(a[0], a[1], '/') })

	r.fn("lessThan", 2, func(a []value.Value) (value.Value, error) {
		l, lok := a[0].(value.Int)
		rv, rok := a[1].(value.Int)
		if !lok || !rok {
			return nil, errs.New(errs.KindTypeError, "lessThan requires two integers")
		}

		return value.Bool(l < rv), nil
	})

	r.fn("floor", 1, func(a []value.Value) (value.Value, error) {
		f, ok := toFloat(a[0])
		if !ok {
			return nil, errs.New(errs.KindTypeError, "floor expects a number, got %v", a[0].Type())
		}

		return value.Int(int64(math.Floor(f))), nil
	})

	r.fn("ceil", 1, func(a []value.Value) (value.Value, error) {
		f, ok := toFloat(a[0])
		if !ok {
			return nil, errs.New(errs.KindTypeError, "ceil expects a number, got %v", a[0].Type())
		}

		return value.Int(int64(math.Ceil(f))), nil
	})

	r.fn("abs", 1, func(a []value.Value) (value.Value, error) {
		switch v := a[0].(type) {
		case value.Int:
			if v < 0 {
				return -v, nil
			}

			return v, nil
		case value.Float:
			return value.Float(math.Abs(float64(v))), nil
		default:
			return nil, errs.New(errs.KindTypeError, "abs expects a number, got %v", v.Type())
		}
	})

	r.fn("bitAnd", 2, func(a []value.Value) (value.Value, error) { return bitwise(a[0], a[1], func(x, y int64) int64 { return x & y }) })
	r.fn("bitOr", 2, func(a []value.Value) (value.Value, error) { return bitwise(a[0], a[1], func(x, y int64) int64 { return x | y }) })
	r.fn("bitXor", 2, func(a []value.Value) (value.Value, error) { return bitwise(a[0], a[1], func(x, y int64) int64 { return x ^ y }) })
}

func toFloat(v value.Value) (float64, bool) {
	switch v := v.(type) {
	case value.Int:
		return float64(v), true
	case value.Float:
		return float64(v), true
	default:
		return 0, false
	}
}

func bitwise(a, b value.Value, op func(x, y int64) int64) (value.Value, error) {
	x, xok := a.(value.Int)
	y, yok := b.(value.Int)
	if !xok || !yok {
		return nil, errs.New(errs.KindTypeError, "bitwise operators require two ints")
	}

	return value.Int(op(int64(x), int64(y))), nil
}

// arith implements the builtins.add/sub/mul/div primops: integers only, no
// float promotion (see the package doc comment on registerMath).
func arith(a, b value.Value, op byte) (value.Value, error) {
	l, lok := a.(value.Int)
	rv, rok := b.(value.Int)
	if !lok || !rok {
		return nil, errs.New(errs.KindTypeError, "arithmetic primops require two integers, got %v and %v", a.Type(), b.Type())
	}

	switch op {
	case '+':
		return l + rv, nil
	case '-':
		return l - rv, nil
	case '*':
		return l * rv, nil
	case '/':
		if rv == 0 {
			return nil, errs.New(errs.KindDivisionByZero, "division by zero")
		}

		return l / rv, nil
	default:
		return nil, errs.New(errs.KindTypeError, "unknown arithmetic operator")
	}
}
