package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/gix/internal/value"
)

// fakeHost implements Host without any evaluator dependency: Apply only
// needs to support the small set of builtin closures exercised below.
type fakeHost struct{}

func (fakeHost) Apply(fn, arg value.Value) (value.Value, error) {
	b, ok := fn.(*value.Builtin)
	if !ok {
		return nil, assertCallable(fn)
	}

	return b.Apply(arg)
}

func (fakeHost) Import(path string) (value.Value, error) { return value.Null{}, nil }
func (fakeHost) BaseDir() string                          { return "." }

var _ Host = fakeHost{}

func assertCallable(v value.Value) error {
	return &callError{v}
}

type callError struct{ v value.Value }

func (e *callError) Error() string { return "not callable" }

func newRegistry(t *testing.T) map[string]value.Value {
	t.Helper()
	all, _ := All(fakeHost{})

	return all
}

func callBuiltin(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	all := newRegistry(t)
	b, ok := all[name].(*value.Builtin)
	require.True(t, ok, "builtin %q not registered as *Builtin", name)

	var result value.Value = b
	for _, a := range args {
		applied, err := b.Apply(a)
		require.NoError(t, err)
		result = applied
		if nb, ok := applied.(*value.Builtin); ok {
			b = nb
		}
	}

	return result
}

func TestPredicates(t *testing.T) {
	assert.Equal(t, value.Bool(true), callBuiltin(t, "isInt", value.Int(1)))
	assert.Equal(t, value.Bool(false), callBuiltin(t, "isInt", value.String("x")))
	assert.Equal(t, value.Bool(true), callBuiltin(t, "isNull", value.Null{}))
	assert.Equal(t, value.String("int"), callBuiltin(t, "typeOf", value.Int(1)))
}

func TestListLength(t *testing.T) {
	list := value.NewList(value.Int(1), value.Int(2), value.Int(3))
	assert.Equal(t, value.Int(3), callBuiltin(t, "length", list))
}

func TestAttrNamesSorted(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("z", value.Int(1))
	attrs.Set("a", value.Int(2))

	result := callBuiltin(t, "attrNames", attrs)
	list, ok := result.(*value.List)
	require.True(t, ok)
	require.Equal(t, 2, list.Len())
	assert.Equal(t, value.String("a"), list.Get(0))
	assert.Equal(t, value.String("z"), list.Get(1))
}

func TestMathRequiresInts(t *testing.T) {
	all := newRegistry(t)
	add := all["add"].(*value.Builtin)

	partial, err := add.Apply(value.Int(1))
	require.NoError(t, err)
	_, err = partial.(*value.Builtin).Apply(value.Float(2.5))
	assert.Error(t, err, "add should reject a float operand")
}

func TestJSONRoundTrip(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("name", value.String("hi"))
	attrs.Set("count", value.Int(3))
	list := value.NewList(value.Int(1), value.Int(2))
	attrs.Set("items", list)

	encoded := callBuiltin(t, "toJSON", attrs)
	s, ok := encoded.(value.String)
	require.True(t, ok)

	decoded := callBuiltin(t, "fromJSON", s)
	back, ok := decoded.(*value.Attrs)
	require.True(t, ok)

	name, _ := back.Get("name")
	assert.Equal(t, value.String("hi"), name)
	count, _ := back.Get("count")
	assert.Equal(t, value.Int(3), count)
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, value.Int(-1), callBuiltin(t, "compareVersions", value.String("1.2"), value.String("1.10")))
	assert.Equal(t, value.Int(0), callBuiltin(t, "compareVersions", value.String("1.0"), value.String("1.0")))
}

func TestRemoveAttrs(t *testing.T) {
	attrs := value.NewAttrs()
	attrs.Set("a", value.Int(1))
	attrs.Set("b", value.Int(2))

	result := callBuiltin(t, "removeAttrs", attrs, value.NewList(value.String("a")))
	out, ok := result.(*value.Attrs)
	require.True(t, ok)
	_, hasA := out.Get("a")
	assert.False(t, hasA)
	_, hasB := out.Get("b")
	assert.True(t, hasB)
}
