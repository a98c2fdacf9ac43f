package builtins

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerContext installs the string-context primops as context-free
// stubs: this evaluator never tracks which store paths a string was built
// from, so these report the vacuous answer a context-free string always
// has rather than raising an error.
func (r *registry) registerContext() {
	r.fn("hasContext", 1, func(a []value.Value) (value.Value, error) {
		if _, ok := a[0].(value.String); !ok {
			return nil, errs.New(errs.KindTypeError, "hasContext expects a string, got %v", a[0].Type())
		}

		return value.Bool(false), nil
	})

	r.fn("getContext", 1, func(a []value.Value) (value.Value, error) {
		if _, ok := a[0].(value.String); !ok {
			return nil, errs.New(errs.KindTypeError, "getContext expects a string, got %v", a[0].Type())
		}

		return value.NewAttrs(), nil
	})

	r.fn("unsafeDiscardStringContext", 1, func(a []value.Value) (value.Value, error) {
		s, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "unsafeDiscardStringContext expects a string, got %v", a[0].Type())
		}

		return s, nil
	})

	r.fn("unsafeGetAttrPos", 2, func(a []value.Value) (value.Value, error) {
		// No source-position tracking is carried through evaluation, so the
		// position is always unknown.
		return value.Null{}, nil
	})
}
