package value

// Env implements Environment with lexical scoping plus the dynamic,
// lowest-priority scope introduced by "with". A frame is either a regular
// bindings frame (from a lambda application, "let", or recursive attrset) or
// a "with" frame that carries the scope attrset instead of a bindings map.
type Env struct {
	bindings  map[string]Value
	withScope Value // non-nil only for a "with" frame
	parent    *Env
}

// NewEnv creates a new empty environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]Value)}
}

// Get performs a purely lexical lookup, skipping "with" frames. This is what
// determines whether a name is actually bound in the source without falling
// back to dynamic scope - needed to implement "with"'s low-priority rule.
func (e *Env) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.bindings == nil {
			continue
		}
		if v, ok := cur.bindings[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Lookup resolves an identifier the way the evaluator must: lexical bindings
// anywhere in the chain take priority over any "with" scope, and among
// "with" scopes the innermost one that defines the name wins.
func (e *Env) Lookup(name string) (Value, bool) {
	if v, ok := e.Get(name); ok {
		return v, true
	}

	for cur := e; cur != nil; cur = cur.parent {
		if cur.withScope == nil {
			continue
		}
		scope, err := Force(cur.withScope)
		if err != nil {
			continue
		}
		attrs, ok := scope.(*Attrs)
		if !ok {
			continue
		}
		if v, ok := attrs.Get(name); ok {
			return v, true
		}
	}

	return nil, false
}

// Set binds a variable in the current frame. Must not be called on a "with" frame.
func (e *Env) Set(name string, value Value) {
	if e.bindings == nil {
		e.bindings = make(map[string]Value)
	}
	e.bindings[name] = value
}

// Extend creates a new lexical child frame.
func (e *Env) Extend() Environment {
	return &Env{bindings: make(map[string]Value), parent: e}
}

// PushWith creates a new "with" frame bringing scope's attributes into
// (low-priority) lexical reach.
func (e *Env) PushWith(scope Value) Environment {
	return &Env{withScope: scope, parent: e}
}

// Parent returns the enclosing frame, or nil at the root. Exposed so
// diagnostics (e.g. undefined-variable suggestions) can walk the chain
// without the evaluator reaching into Env internals.
func (e *Env) Parent() *Env { return e.parent }

// OwnNames returns the names bound directly in this frame (empty for a
// "with" frame), in no particular order.
func (e *Env) OwnNames() []string {
	names := make([]string, 0, len(e.bindings))
	for n := range e.bindings {
		names = append(names, n)
	}

	return names
}

// WithBindings creates a new environment with the given bindings.
func (e *Env) WithBindings(bindings map[string]Value) *Env {
	child := e.Extend().(*Env)
	for k, v := range bindings {
		child.Set(k, v)
	}

	return child
}
