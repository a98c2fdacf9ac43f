// Package eval provides the expression evaluator for the Nix expression language interpreter.
//
// The evaluator is the final stage of the Nix interpreter pipeline, taking Abstract
// Syntax Trees (ASTs) from the parser and computing their runtime values. It implements
// lazy (call-by-need) evaluation, lexical scoping with "with" fallback, and the
// built-in function library from pkg/builtins.
//
// Architecture:
//
// The evaluator uses a tree-walking approach with the following key components:
//   - Evaluator: main evaluation engine, owning the builtin bindings
//   - internal/value.Environment: lexical scoping plus "with" dynamic scope
//   - internal/value.Value / Thunk: the runtime value model and its laziness
//   - pkg/builtins: the standard library, wired in through the Apply/Import hooks
//
// The design follows domain-driven principles with clear separation of concerns:
//   - evaluator.go: central dispatch and thunk creation
//   - operators.go: binary and unary operator implementations
//   - control_flow.go: if/let/with/assert and shared inherit desugaring
//   - attrset.go: attribute-set construction, including dotted-path merging
//   - functions.go: function application, pattern destructuring, selection
//   - builtins.go: wiring pkg/builtins into the evaluator's environment
//   - coerce.go: string-interpolation coercion rules
//
// Evaluation Strategy:
//
// Laziness is structural, not a property of evalExpr itself: evalExpr always
// returns a forced value, and every point in the language that Nix requires
// to be lazy (list elements, attribute values, let bindings, function
// arguments, "with" scopes) instead controls *when* evalExpr runs by
// wrapping it in a Thunk via makeThunk.
//
// Supported Language Features:
//
// All major Nix language constructs are supported:
//   - Literals: integers, floats, strings (plain and interpolated), booleans, null, paths, URIs
//   - Operators: arithmetic, comparison, logical (short-circuiting), concatenation, update
//   - Control flow: if-then-else, let-in (mutually recursive), with, assert
//   - Functions: identifier and attribute-set-pattern parameters, "@"-alias, curried builtins
//   - Data structures: lists, attribute sets (recursive and non-recursive, dotted paths, inherit)
//   - Built-ins: the ~80-primitive standard library in pkg/builtins
//   - Derivations: pkg/derivation + pkg/store for Nix-accurate store paths
//
// Error Handling:
//
// Errors carry a Kind (internal/errs) so callers can branch on category:
//   - KindTypeError: operator/builtin applied to the wrong type
//   - KindUndefinedVariable: unresolved identifier (with a fuzzy-matched suggestion)
//   - KindMissingAttribute: selection or getAttr on an absent attribute, no default
//   - KindAssertionFailed: failed assert, or builtins.throw/abort
//   - KindInfiniteRecursion: a thunk forced while already being forced
//   - KindDivisionByZero
//
// Usage Example:
//
//	l := lexer.New(`let x = 42; f = y: x + y; in f 8`)
//	p := parser.New(l)
//	ast, err := p.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	e := eval.New(".")
//	result, err := e.Eval(ast)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(result.String()) // Output: 50
package eval
