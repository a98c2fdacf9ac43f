// Package value implements the runtime value model for the Nix expression
// evaluator: the tagged union of value types, lazy thunks, and the curried
// builtin-function representation.
package value

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/types"
)

// Type represents the type of a Nix value.
type Type byte

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypePath
	TypeList
	TypeAttrs
	TypeFunction
	TypeBuiltin
	TypeThunk
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypePath:
		return "path"
	case TypeList:
		return "list"
	case TypeAttrs:
		return "set"
	case TypeFunction, TypeBuiltin:
		return "lambda"
	case TypeThunk:
		return "thunk"
	default:
		return "unknown"
	}
}

// Value is the interface all Nix values must implement.
type Value interface {
	Type() Type
	String() string
	Equals(Value) bool
}

// Force resolves v to a non-thunk value, chasing thunks-of-thunks. Every
// evaluator code path that inspects a value's concrete shape must call
// Force first; env lookups and list/attrs elements may hold unforced thunks.
func Force(v Value) (Value, error) {
	for {
		t, ok := v.(*Thunk)
		if !ok {
			return v, nil
		}

		forced, err := t.force()
		if err != nil {
			return nil, err
		}
		v = forced
	}
}

// Null represents the null value.
type Null struct{}

func (Null) Type() Type     { return TypeNull }
func (Null) String() string { return "null" }
func (Null) Equals(v Value) bool {
	_, ok := v.(Null)

	return ok
}

// Bool represents a boolean value.
type Bool bool

func (b Bool) Type() Type     { return TypeBool }
func (b Bool) String() string { return fmt.Sprintf("%t", b) }
func (b Bool) Equals(v Value) bool {
	other, ok := v.(Bool)

	return ok && b == other
}

// Int represents an integer value.
type Int int64

func (i Int) Type() Type     { return TypeInt }
func (i Int) String() string { return fmt.Sprintf("%d", i) }
func (i Int) Equals(v Value) bool {
	other, ok := v.(Int)

	return ok && i == other
}

// Float represents a floating-point value.
type Float float64

func (f Float) Type() Type     { return TypeFloat }
func (f Float) String() string { return fmt.Sprintf("%g", f) }
func (f Float) Equals(v Value) bool {
	other, ok := v.(Float)

	return ok && f == other
}

// String represents a string value.
type String string

func (s String) Type() Type     { return TypeString }
func (s String) String() string { return fmt.Sprintf(`"%s"`, string(s)) }
func (s String) Equals(v Value) bool {
	other, ok := v.(String)

	return ok && s == other
}

// Path represents a path value.
type Path string

func (p Path) Type() Type     { return TypePath }
func (p Path) String() string { return string(p) }
func (p Path) Equals(v Value) bool {
	other, ok := v.(Path)

	return ok && p == other
}

// List represents a list value. Elements may be unforced thunks.
type List struct {
	elems []Value
}

// NewList creates a new list from elements.
func NewList(elems ...Value) *List {
	return &List{elems: append([]Value(nil), elems...)}
}

func (l *List) Type() Type { return TypeList }
func (l *List) Len() int   { return len(l.elems) }
func (l *List) Get(i int) Value {
	if i >= 0 && i < len(l.elems) {
		return l.elems[i]
	}

	return Null{}
}
func (l *List) Elements() []Value { return append([]Value(nil), l.elems...) }

func (l *List) String() string {
	parts := make([]string, len(l.elems))
	for i, elem := range l.elems {
		parts[i] = elem.String()
	}

	return fmt.Sprintf("[ %s ]", strings.Join(parts, " "))
}

func (l *List) Equals(v Value) bool {
	other, ok := v.(*List)
	if !ok || len(l.elems) != len(other.elems) {
		return false
	}
	for i, e := range l.elems {
		ef, err := Force(e)
		if err != nil {
			return false
		}
		of, err := Force(other.elems[i])
		if err != nil {
			return false
		}
		if !ef.Equals(of) {
			return false
		}
	}

	return true
}

// Attrs represents an attribute set. Entries preserve insertion order (the
// order matters for display and for builtins like attrNames/attrValues) and
// may hold unforced thunks as values.
type Attrs struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewAttrs creates a new empty attribute set.
func NewAttrs() *Attrs {
	return &Attrs{m: orderedmap.New[string, Value]()}
}

// NewAttrsFrom creates an attribute set from a map. Since plain Go maps have
// no stable order, keys are inserted in sorted order for determinism.
func NewAttrsFrom(m map[string]Value) *Attrs {
	a := NewAttrs()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	for _, k := range keys {
		a.Set(k, m[k])
	}

	return a
}

func (a *Attrs) Type() Type { return TypeAttrs }
func (a *Attrs) Len() int   { return a.m.Len() }

func (a *Attrs) Get(key string) (Value, bool) {
	return a.m.Get(key)
}

func (a *Attrs) Set(key string, val Value) {
	a.m.Set(key, val)
}

// Keys returns the attribute names in insertion order.
func (a *Attrs) Keys() []string {
	keys := make([]string, 0, a.m.Len())
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

// SortedKeys returns the attribute names in lexicographic order, which is
// the order Nix uses for "builtins.attrNames" and pretty-printing.
func (a *Attrs) SortedKeys() []string {
	keys := a.Keys()
	sortStrings(keys)

	return keys
}

func (a *Attrs) String() string {
	if a.m.Len() == 0 {
		return "{ }"
	}

	keys := a.SortedKeys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := a.m.Get(k)
		parts[i] = fmt.Sprintf("%s = %s;", k, v)
	}

	return fmt.Sprintf("{ %s }", strings.Join(parts, " "))
}

func (a *Attrs) Equals(v Value) bool {
	other, ok := v.(*Attrs)
	if !ok || a.m.Len() != other.m.Len() {
		return false
	}
	for pair := a.m.Oldest(); pair != nil; pair = pair.Next() {
		otherV, ok := other.m.Get(pair.Key)
		if !ok {
			return false
		}
		lf, err := Force(pair.Value)
		if err != nil {
			return false
		}
		rf, err := Force(otherV)
		if err != nil {
			return false
		}
		if !lf.Equals(rf) {
			return false
		}
	}

	return true
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Function represents a user-defined, single-argument lambda. Pattern is
// non-nil for attribute-set destructuring lambdas; otherwise Param names the
// bound identifier directly.
type Function struct {
	param   string
	pattern *types.Pattern
	body    types.Expr
	env     Environment
}

// NewFunction creates a function bound to a plain identifier parameter.
func NewFunction(param string, body types.Expr, env Environment) *Function {
	return &Function{param: param, body: body, env: env}
}

// NewPatternFunction creates a function bound to an attribute-set pattern.
func NewPatternFunction(pattern *types.Pattern, body types.Expr, env Environment) *Function {
	return &Function{pattern: pattern, body: body, env: env}
}

func (f *Function) Type() Type { return TypeFunction }
func (f *Function) String() string {
	if f.pattern != nil {
		return fmt.Sprintf("<LAMBDA %s>", f.pattern)
	}

	return fmt.Sprintf("<LAMBDA %s>", f.param)
}
func (f *Function) Equals(Value) bool      { return false } // Functions are never comparable in Nix.
func (f *Function) Param() string          { return f.param }
func (f *Function) Pattern() *types.Pattern { return f.pattern }
func (f *Function) Body() types.Expr       { return f.body }
func (f *Function) Env() Environment       { return f.env }

// Builtin represents a (possibly partially-applied) built-in function.
// Builtins apply one argument at a time, mirroring how user lambdas compose,
// so that e.g. "map (builtins.add 1)" works without special-casing arity.
type Builtin struct {
	name  string
	arity int
	fn    func([]Value) (Value, error)
	bound []Value
}

// NewBuiltin creates a new builtin with the given total arity.
func NewBuiltin(name string, arity int, fn func([]Value) (Value, error)) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

func (b *Builtin) Type() Type { return TypeBuiltin }
func (b *Builtin) String() string {
	return fmt.Sprintf("<PRIMOP %s>", b.name)
}
func (b *Builtin) Equals(v Value) bool {
	other, ok := v.(*Builtin)

	return ok && b.name == other.name && len(b.bound) == len(other.bound)
}
func (b *Builtin) Name() string { return b.name }
func (b *Builtin) Arity() int   { return b.arity }

// Apply supplies one more argument, returning either a further-curried
// Builtin (if still under arity) or the fully-applied call's result.
func (b *Builtin) Apply(arg Value) (Value, error) {
	bound := make([]Value, len(b.bound), len(b.bound)+1)
	copy(bound, b.bound)
	bound = append(bound, arg)

	if len(bound) < b.arity {
		return &Builtin{name: b.name, arity: b.arity, fn: b.fn, bound: bound}, nil
	}

	return b.fn(bound)
}

// Environment represents variable bindings with lexical scoping, plus the
// additional dynamic scope introduced by "with".
type Environment interface {
	Get(name string) (Value, bool)
	Set(name string, value Value)
	Extend() Environment
	PushWith(scope Value) Environment
	Lookup(name string) (Value, bool)
}

// Constructors for convenience.
func MakeNull() Value           { return Null{} }
func MakeBool(b bool) Value     { return Bool(b) }
func MakeInt(i int64) Value     { return Int(i) }
func MakeFloat(f float64) Value { return Float(f) }
func MakeString(s string) Value { return String(s) }
func MakePath(p string) Value   { return Path(p) }

// thunkState tracks a Thunk's progress through its one-shot evaluation.
type thunkState byte

const (
	thunkUnforced thunkState = iota
	thunkEvaluating
	thunkForced
)

// Thunk is a suspended computation: an expression paired with the
// environment it closes over, evaluated at most once. Forcing a thunk that
// is already being forced (a self-referential binding with no base case)
// reports KindInfiniteRecursion rather than looping forever.
type Thunk struct {
	state   thunkState
	compute func() (Value, error)
	value   Value
	err     error
}

// NewThunk wraps a deferred computation. The evaluator supplies compute as a
// closure over the expression and environment to evaluate lazily.
func NewThunk(compute func() (Value, error)) *Thunk {
	return &Thunk{compute: compute}
}

func (t *Thunk) Type() Type { return TypeThunk }
func (t *Thunk) String() string {
	v, err := t.force()
	if err != nil {
		return fmt.Sprintf("<CYCLE: %s>", err)
	}

	return v.String()
}
func (t *Thunk) Equals(v Value) bool {
	forced, err := t.force()
	if err != nil {
		return false
	}
	other, err := Force(v)
	if err != nil {
		return false
	}

	return forced.Equals(other)
}

func (t *Thunk) force() (Value, error) {
	switch t.state {
	case thunkForced:
		return t.value, t.err
	case thunkEvaluating:
		return nil, errs.New(errs.KindInfiniteRecursion, "infinite recursion encountered")
	}

	t.state = thunkEvaluating
	t.value, t.err = t.compute()
	t.state = thunkForced
	// Release the closure once evaluated so it can be garbage collected;
	// the captured expr/env are no longer needed.
	t.compute = nil

	return t.value, t.err
}
