package builtins

import (
	"fmt"
	"os"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerControl installs abort/throw/assert-adjacent control-flow
// primops, plus import and the trace/warn logging hooks.
func (r *registry) registerControl() {
	r.fn("abort", 1, func(a []value.Value) (value.Value, error) {
		msg, _ := ToDisplayString(a[0])

		return nil, errs.New(errs.KindAssertionFailed, "evaluation aborted: %s", msg)
	})

	r.fn("throw", 1, func(a []value.Value) (value.Value, error) {
		msg, _ := ToDisplayString(a[0])

		return nil, errs.New(errs.KindAssertionFailed, "%s", msg)
	})

	r.fn("addErrorContext", 2, func(a []value.Value) (value.Value, error) {
		return value.Force(a[1])
	})

	r.fn("tryEval", 1, func(a []value.Value) (value.Value, error) {
		out := value.NewAttrs()
		forced, err := value.Force(a[0])
		if err != nil {
			out.Set("success", value.Bool(false))
			out.Set("value", value.Bool(false))

			return out, nil
		}
		out.Set("success", value.Bool(true))
		out.Set("value", forced)

		return out, nil
	})

	r.fn("seq", 2, func(a []value.Value) (value.Value, error) {
		if _, err := value.Force(a[0]); err != nil {
			return nil, err
		}

		return value.Force(a[1])
	})

	// deepSeq forces one level deeper than seq (its elements/attrs, not
	// their own elements/attrs in turn) - full recursive forcing is a
	// documented non-goal.
	r.fn("deepSeq", 2, func(a []value.Value) (value.Value, error) {
		forced, err := value.Force(a[0])
		if err != nil {
			return nil, err
		}

		switch v := forced.(type) {
		case *value.List:
			for _, e := range v.Elements() {
				if _, err := value.Force(e); err != nil {
					return nil, err
				}
			}
		case *value.Attrs:
			for _, k := range v.Keys() {
				e, _ := v.Get(k)
				if _, err := value.Force(e); err != nil {
					return nil, err
				}
			}
		}

		return value.Force(a[1])
	})

	r.fn("trace", 2, func(a []value.Value) (value.Value, error) {
		msg, _ := ToDisplayString(a[0])
		fmt.Fprintln(os.Stderr, "trace:", msg)

		return value.Force(a[1])
	})

	r.fn("warn", 1, func(a []value.Value) (value.Value, error) {
		msg, _ := ToDisplayString(a[0])
		fmt.Fprintln(os.Stderr, "warning:", msg)

		return value.Bool(true), nil
	})

	r.fn("import", 1, func(a []value.Value) (value.Value, error) {
		path, err := pathLikeString(a[0])
		if err != nil {
			return nil, err
		}

		return r.host.Import(path)
	})
}
