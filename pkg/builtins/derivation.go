package builtins

import (
	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/derivation"
)

// registerDerivation installs the "derivation" primop, the entry point
// into pkg/derivation's ATerm-based store-path computation.
func (r *registry) registerDerivation() {
	r.fn("derivation", 1, func(a []value.Value) (value.Value, error) {
		attrs, ok := a[0].(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "derivation expects a set, got %v", a[0].Type())
		}

		drv, err := derivation.FromAttrs(attrs, ToDisplayString)
		if err != nil {
			return nil, err
		}

		return drv.ToAttrs(), nil
	})
}
