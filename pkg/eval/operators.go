package eval

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/types"
	"github.com/conneroisu/gix/internal/value"
)

// evalBinary evaluates binary operators, short-circuiting && || -> before
// either operand is forced unnecessarily.
func (e *Evaluator) evalBinary(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	switch expr.Op {
	case types.OpAnd:
		return e.evalAnd(expr, env)
	case types.OpOr:
		return e.evalOr(expr, env)
	case types.OpImpl:
		return e.evalImpl(expr, env)
	}

	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case types.OpAdd:
		return e.evalAdd(left, right)
	case types.OpSub:
		return evalSub(left, right)
	case types.OpMul:
		return evalMul(left, right)
	case types.OpDiv:
		return evalDiv(left, right)
	case types.OpConcat:
		return evalConcat(left, right)
	case types.OpEq:
		return value.Bool(left.Equals(right)), nil
	case types.OpNEq:
		return value.Bool(!left.Equals(right)), nil
	case types.OpLT:
		return evalLess(left, right)
	case types.OpGT:
		return evalGreater(left, right)
	case types.OpLTE:
		return evalLessEq(left, right)
	case types.OpGTE:
		return evalGreaterEq(left, right)
	case types.OpUpdate:
		return evalUpdate(left, right)
	default:
		return nil, errs.New(errs.KindTypeError, "unknown binary operator: %v", expr.Op)
	}
}

// evalUnary evaluates unary operators.
func (e *Evaluator) evalUnary(expr *types.UnaryExpr, env value.Environment) (value.Value, error) {
	operand, err := e.evalExpr(expr.Expr, env)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case types.OpNot:
		b, ok := operand.(value.Bool)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "! requires a bool operand, got %v", operand.Type())
		}

		return value.Bool(!bool(b)), nil

	case types.OpNeg:
		switch v := operand.(type) {
		case value.Int:
			return value.Int(-v), nil
		case value.Float:
			return value.Float(-v), nil
		default:
			return nil, errs.New(errs.KindTypeError, "unary - requires a numeric operand, got %v", operand.Type())
		}

	default:
		return nil, errs.New(errs.KindTypeError, "unknown unary operator: %v", expr.Op)
	}
}

func (e *Evaluator) evalAnd(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	leftBool, ok := left.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "&& requires bool operands, got %v", left.Type())
	}

	if !leftBool {
		return value.Bool(false), nil
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	rightBool, ok := right.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "&& requires bool operands, got %v", right.Type())
	}

	return rightBool, nil
}

func (e *Evaluator) evalOr(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	leftBool, ok := left.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "|| requires bool operands, got %v", left.Type())
	}

	if leftBool {
		return value.Bool(true), nil
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	rightBool, ok := right.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "|| requires bool operands, got %v", right.Type())
	}

	return rightBool, nil
}

func (e *Evaluator) evalImpl(expr *types.BinaryExpr, env value.Environment) (value.Value, error) {
	left, err := e.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	leftBool, ok := left.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "-> requires bool operands, got %v", left.Type())
	}

	if !leftBool {
		return value.Bool(true), nil
	}

	right, err := e.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	rightBool, ok := right.(value.Bool)
	if !ok {
		return nil, errs.New(errs.KindTypeError, "-> requires bool operands, got %v", right.Type())
	}

	return rightBool, nil
}

func (e *Evaluator) evalAdd(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Int(l + r), nil
		case value.Float:
			return value.Float(float64(l) + float64(r)), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot add %v to an int", right.Type())
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Float(float64(l) + float64(r)), nil
		case value.Float:
			return value.Float(l + r), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot add %v to a float", right.Type())
		}

	case value.String:
		r, ok := right.(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "cannot add %v to a string", right.Type())
		}

		return value.String(string(l) + string(r)), nil

	case value.Path:
		s, err := e.coerceToString(right)
		if err != nil {
			return nil, errs.New(errs.KindTypeError, "cannot add %v to a path", right.Type())
		}

		return value.Path(string(l) + s), nil

	default:
		return nil, errs.New(errs.KindTypeError, "cannot add values of type %v", left.Type())
	}
}

func evalSub(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Int(int64(l) - int64(r)), nil
		case value.Float:
			return value.Float(float64(l) - float64(r)), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot subtract %v from an int", right.Type())
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Float(float64(l) - float64(r)), nil
		case value.Float:
			return value.Float(l - r), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot subtract %v from a float", right.Type())
		}

	default:
		return nil, errs.New(errs.KindTypeError, "cannot subtract from %v", left.Type())
	}
}

func evalMul(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Int(int64(l) * int64(r)), nil
		case value.Float:
			return value.Float(float64(l) * float64(r)), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot multiply an int by %v", right.Type())
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Float(float64(l) * float64(r)), nil
		case value.Float:
			return value.Float(l * r), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot multiply a float by %v", right.Type())
		}

	default:
		return nil, errs.New(errs.KindTypeError, "cannot multiply %v", left.Type())
	}
}

// evalDiv implements Nix's numeric division: int/int truncates toward zero
// and stays an int; any float operand promotes the result to float.
func evalDiv(left, right value.Value) (value.Value, error) {
	switch r := right.(type) {
	case value.Int:
		if r == 0 {
			return nil, errs.New(errs.KindDivisionByZero, "division by zero")
		}
	case value.Float:
		if r == 0 {
			return nil, errs.New(errs.KindDivisionByZero, "division by zero")
		}
	}

	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Int(int64(l) / int64(r)), nil
		case value.Float:
			return value.Float(float64(l) / float64(r)), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot divide an int by %v", right.Type())
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Float(float64(l) / float64(r)), nil
		case value.Float:
			return value.Float(l / r), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot divide a float by %v", right.Type())
		}

	default:
		return nil, errs.New(errs.KindTypeError, "cannot divide %v", left.Type())
	}
}

// evalConcat implements "++" list concatenation. Elements stay as-is
// (possibly still thunked); only the list shells are forced.
func evalConcat(left, right value.Value) (value.Value, error) {
	lList, lOk := left.(*value.List)
	rList, rOk := right.(*value.List)

	if !lOk || !rOk {
		return nil, errs.New(errs.KindTypeError, "++ requires two lists, got %v and %v", left.Type(), right.Type())
	}

	elements := append(lList.Elements(), rList.Elements()...)

	return value.NewList(elements...), nil
}

func evalLess(left, right value.Value) (value.Value, error) {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return value.Bool(l < r), nil
		case value.Float:
			return value.Bool(float64(l) < float64(r)), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot compare an int with %v", right.Type())
		}

	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return value.Bool(float64(l) < float64(r)), nil
		case value.Float:
			return value.Bool(l < r), nil
		default:
			return nil, errs.New(errs.KindTypeError, "cannot compare a float with %v", right.Type())
		}

	case value.String:
		r, ok := right.(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "cannot compare a string with %v", right.Type())
		}

		return value.Bool(l < r), nil

	default:
		return nil, errs.New(errs.KindTypeError, "cannot compare values of type %v", left.Type())
	}
}

func evalGreater(left, right value.Value) (value.Value, error) {
	return evalLess(right, left)
}

func evalLessEq(left, right value.Value) (value.Value, error) {
	less, err := evalLess(left, right)
	if err != nil {
		return nil, err
	}
	if bool(less.(value.Bool)) {
		return value.Bool(true), nil
	}

	return value.Bool(left.Equals(right)), nil
}

func evalGreaterEq(left, right value.Value) (value.Value, error) {
	greater, err := evalGreater(left, right)
	if err != nil {
		return nil, err
	}
	if bool(greater.(value.Bool)) {
		return value.Bool(true), nil
	}

	return value.Bool(left.Equals(right)), nil
}

// evalUpdate implements "//": a right-biased shallow merge. Values are
// copied as-is (possibly still thunked) from each side.
func evalUpdate(left, right value.Value) (value.Value, error) {
	lAttrs, lOk := left.(*value.Attrs)
	rAttrs, rOk := right.(*value.Attrs)

	if !lOk || !rOk {
		return nil, errs.New(errs.KindTypeError, "// requires two sets, got %v and %v", left.Type(), right.Type())
	}

	result := value.NewAttrs()
	for _, k := range lAttrs.Keys() {
		v, _ := lAttrs.Get(k)
		result.Set(k, v)
	}
	for _, k := range rAttrs.Keys() {
		v, _ := rAttrs.Get(k)
		result.Set(k, v)
	}

	return result, nil
}
