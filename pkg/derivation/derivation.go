// Package derivation builds Nix derivations from evaluated attribute sets
// and computes their store paths via pkg/store's ATerm + Nix-base32
// hashing, replacing a plain-hex placeholder scheme with the real
// algorithm.
package derivation

import (
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/store"
)

// Spec is the decoded shape of a builtins.derivation argument: the subset
// of attributes mapstructure pulls out of the forced attrs map before
// store-path computation.
type Spec struct {
	Name    string            `mapstructure:"name"`
	System  string            `mapstructure:"system"`
	Builder string            `mapstructure:"builder"`
	Args    []string          `mapstructure:"args"`
	Env     map[string]string `mapstructure:"-"` // filled separately; see FromAttrs
}

// Derivation is a fully-built derivation: its spec plus computed ATerm
// digest and store paths for every declared output.
type Derivation struct {
	Spec
	OutputNames []string          // declared output names, sorted
	Outputs     map[string]string // output name -> store path
	DrvPath     string
	ATerm       string
}

// FromAttrs decodes a forced builtins.derivation attribute set into a
// Derivation, computing its store path(s). coerce is the string coercion
// applied to each attribute value (pkg/builtins passes its toString
// coercion, ToDisplayString); it is passed in rather than imported, since
// pkg/builtins already imports this package.
func FromAttrs(attrs *value.Attrs, coerce func(value.Value) (string, error)) (*Derivation, error) {
	raw := map[string]any{}
	env := map[string]string{}

	for _, k := range attrs.Keys() {
		v, _ := attrs.Get(k)
		forced, err := value.Force(v)
		if err != nil {
			return nil, err
		}

		switch k {
		case "name", "system", "builder":
			s, err := coerce(forced)
			if err != nil {
				return nil, errs.Wrap(errs.KindTypeError, err)
			}
			raw[k] = s
		case "args":
			list, ok := forced.(*value.List)
			if !ok {
				return nil, errs.New(errs.KindTypeError, "derivation 'args' must be a list")
			}
			var args []string
			for _, e := range list.Elements() {
				fe, err := value.Force(e)
				if err != nil {
					return nil, err
				}
				s, err := coerce(fe)
				if err != nil {
					return nil, errs.Wrap(errs.KindTypeError, err)
				}
				args = append(args, s)
			}
			raw["args"] = args
		case "outputs":
			continue
		default:
			s, err := coerce(forced)
			if err != nil {
				return nil, errs.Wrap(errs.KindTypeError, err)
			}
			env[k] = s
		}
	}

	var spec Spec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &spec, TagName: "mapstructure"})
	if err != nil {
		return nil, errs.Wrap(errs.KindTypeError, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errs.Wrap(errs.KindTypeError, err)
	}

	if spec.Name == "" {
		return nil, errs.New(errs.KindTypeError, "derivation missing required 'name' attribute")
	}
	if spec.Builder == "" {
		return nil, errs.New(errs.KindTypeError, "derivation missing required 'builder' attribute")
	}
	if spec.System == "" {
		spec.System = "x86_64-linux"
	}
	spec.Env = env
	env["name"] = spec.Name

	outputNames := []string{"out"}
	if rawOutputs, ok := attrs.Get("outputs"); ok {
		forced, err := value.Force(rawOutputs)
		if err != nil {
			return nil, err
		}
		if list, ok := forced.(*value.List); ok && list.Len() > 0 {
			outputNames = outputNames[:0]
			for _, e := range list.Elements() {
				fe, err := value.Force(e)
				if err != nil {
					return nil, err
				}
				s, ok := fe.(value.String)
				if !ok {
					return nil, errs.New(errs.KindTypeError, "derivation 'outputs' entries must be strings")
				}
				outputNames = append(outputNames, string(s))
			}
		}
	}
	sort.Strings(outputNames)

	aterm := store.SerializeATerm(store.DerivationATerm{
		Outputs: emptyOutputs(outputNames),
		System:  spec.System,
		Builder: spec.Builder,
		Args:    spec.Args,
		Env:     env,
	})
	digest := store.HashDerivation(aterm)

	outputs := make(map[string]string, len(outputNames))
	for _, name := range outputNames {
		outSuffix := spec.Name
		if name != "out" {
			outSuffix = spec.Name + "-" + name
		}
		outputs[name] = store.OutputPath(digest, outSuffix)
	}

	drvDigest := store.HashDerivation(aterm + ".drv")

	return &Derivation{
		Spec:        spec,
		OutputNames: outputNames,
		Outputs:     outputs,
		DrvPath:     store.OutputPath(drvDigest, spec.Name) + ".drv",
		ATerm:       aterm,
	}, nil
}

func emptyOutputs(names []string) map[string]string {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[n] = ""
	}

	return m
}

// ToAttrs converts a built Derivation into the attribute set Nix expects
// back from "derivation {...}": the caller's own input attributes (every
// env attribute plus name/system/builder/args/outputs) carried through as
// the strings they were coerced to (args as a list of strings), plus the
// computed type="derivation", outPath, drvPath, and one
// attribute per declared output pointing at its store path.
func (d *Derivation) ToAttrs() *value.Attrs {
	attrs := value.NewAttrs()

	envKeys := make([]string, 0, len(d.Env))
	for k := range d.Env {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	for _, k := range envKeys {
		attrs.Set(k, value.String(d.Env[k]))
	}

	attrs.Set("system", value.String(d.System))
	attrs.Set("builder", value.String(d.Builder))

	args := make([]value.Value, len(d.Args))
	for i, a := range d.Args {
		args[i] = value.String(a)
	}
	attrs.Set("args", value.NewList(args...))

	outputNames := make([]value.Value, len(d.OutputNames))
	for i, n := range d.OutputNames {
		outputNames[i] = value.String(n)
	}
	attrs.Set("outputs", value.NewList(outputNames...))

	attrs.Set("type", value.String("derivation"))
	attrs.Set("drvPath", value.String(d.DrvPath))

	names := make([]string, 0, len(d.Outputs))
	for name := range d.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attrs.Set(name, value.String(d.Outputs[name]))
	}
	if out, ok := d.Outputs["out"]; ok {
		attrs.Set("outPath", value.String(out))
	}

	return attrs
}
