// Package builtins implements the Nix standard library primitives: the
// type predicates, list/attrset/string/math helpers, JSON codec, path and
// control-flow operations, derivation constructor, and misc constants that
// make up the "builtins" attribute set (and, for the common subset, the
// top-level scope).
//
// The package has no dependency on pkg/eval: function application and
// importing other files are supplied by the host through the Applier and
// Importer hooks, so builtins.go, map, filter, foldl', and import can call
// back into the evaluator without an import cycle.
package builtins

import (
	"github.com/conneroisu/gix/internal/value"
)

// Applier invokes a Nix-level function value with a single argument,
// exactly as the evaluator's own application dispatch does (curried
// builtins, identifier lambdas, and pattern lambdas all included).
type Applier interface {
	Apply(fn, arg value.Value) (value.Value, error)
}

// Importer evaluates a Nix file at path and returns its forced value,
// implementing "import" and "builtins.import" semantics.
type Importer interface {
	Import(path string) (value.Value, error)
}

// Host bundles the callbacks builtins needs from the evaluator.
type Host interface {
	Applier
	Importer
	// BaseDir is the directory relative paths are resolved against.
	BaseDir() string
}

// registry accumulates builtin bindings as they're registered by category.
type registry struct {
	host  Host
	binds map[string]value.Value
}

func (r *registry) add(name string, v value.Value) {
	r.binds[name] = v
}

// fn registers a curried builtin. Once all arity arguments are collected
// they are forced before f runs, so f sees concrete values, never thunks.
// tryEval is the exception: it gets its argument unforced and forces it
// itself, so that it can catch the failure.
func (r *registry) fn(name string, arity int, f func([]value.Value) (value.Value, error)) {
	if name == "tryEval" {
		r.binds[name] = value.NewBuiltin(name, arity, f)

		return
	}
	r.binds[name] = value.NewBuiltin(name, arity, func(args []value.Value) (value.Value, error) {
		forced := make([]value.Value, len(args))
		for i, arg := range args {
			v, err := value.Force(arg)
			if err != nil {
				return nil, err
			}
			forced[i] = v
		}

		return f(forced)
	})
}

// All builds the complete set of builtin bindings. topLevelNames lists
// which of them Nix also exposes unqualified (e.g. "map", "import",
// "toString"), matching real Nix's split between globally-visible
// primops and "builtins."-only ones.
func All(host Host) (all map[string]value.Value, topLevelNames []string) {
	r := &registry{host: host, binds: make(map[string]value.Value)}

	r.registerConstants()
	r.registerPredicates()
	r.registerConversion()
	r.registerLists()
	r.registerAttrs()
	r.registerStrings()
	r.registerMath()
	r.registerJSON()
	r.registerPath()
	r.registerControl()
	r.registerDerivation()
	r.registerVersion()
	r.registerContext()

	return r.binds, topLevelBuiltinNames
}

// topLevelBuiltinNames is the subset of "builtins.*" that real Nix also
// binds unqualified at the top level of every expression.
var topLevelBuiltinNames = []string{
	"abort", "baseNameOf", "builtins", "derivation", "dirOf", "false",
	"fetchTarball", "fetchurl", "import", "isNull", "map", "null",
	"placeholder", "removeAttrs", "throw", "toString", "true",
}
