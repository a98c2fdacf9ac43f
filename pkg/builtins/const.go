package builtins

import "github.com/conneroisu/gix/internal/value"

// registerConstants installs the handful of builtin bindings that are
// plain values rather than functions.
func (r *registry) registerConstants() {
	r.add("true", value.Bool(true))
	r.add("false", value.Bool(false))
	r.add("null", value.Null{})
	r.add("currentSystem", value.String("x86_64-linux"))
	r.add("nixVersion", value.String("2.18.1"))
	r.add("langVersion", value.Int(6))
	r.add("storeDir", value.String("/nix/store"))
	r.add("currentTime", value.Int(0))
}
