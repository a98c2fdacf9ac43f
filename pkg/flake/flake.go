package flake

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/eval"
	"github.com/conneroisu/gix/pkg/lexer"
	"github.com/conneroisu/gix/pkg/parser"
)

// Flake is a loaded, not-yet-resolved flake.nix: its metadata and inputs are
// parsed, and "outputs" is forced to a callable value, but nothing has been
// fetched or applied yet.
type Flake struct {
	Dir         string
	Description string
	Inputs      map[string]*InputNode
	OutputsFn   value.Value

	evaluator *eval.Evaluator
}

// Load reads dir/flake.nix and parses its top-level attribute set into a
// Flake, without fetching any inputs or calling "outputs" yet.
func Load(dir string) (*Flake, error) {
	path := filepath.Join(dir, "flake.nix")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, err)
	}

	l := lexer.New(string(data))
	p := parser.New(l)
	ast, err := p.Parse()
	if err != nil {
		return nil, errs.Wrap(errs.KindSyntax, err)
	}

	ev := eval.New(dir)
	result, err := ev.Eval(ast)
	if err != nil {
		return nil, err
	}

	attrs, ok := result.(*value.Attrs)
	if !ok {
		return nil, errs.New(errs.KindFlake, "%s must evaluate to an attribute set, got %s", path, result.Type())
	}

	fl := &Flake{Dir: dir, evaluator: ev}

	if descV, ok := attrs.Get("description"); ok {
		desc, err := forceString(descV)
		if err != nil {
			return nil, errs.Wrap(errs.KindFlake, err)
		}
		fl.Description = desc
	}

	if inputsV, ok := attrs.Get("inputs"); ok {
		forced, err := value.Force(inputsV)
		if err != nil {
			return nil, err
		}
		inputAttrs, ok := forced.(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindFlake, "%s: 'inputs' must be an attribute set", path)
		}
		nodes, err := parseInputNodes(inputAttrs)
		if err != nil {
			return nil, err
		}
		fl.Inputs = nodes
	}

	outputsV, ok := attrs.Get("outputs")
	if !ok {
		return nil, errs.New(errs.KindFlake, "%s: missing required 'outputs'", path)
	}
	forcedOutputs, err := value.Force(outputsV)
	if err != nil {
		return nil, err
	}
	fl.OutputsFn = forcedOutputs

	return fl, nil
}

// ResolvedInput is a fetched (and, for flake inputs, fully evaluated) input
// ready to be exposed to the referencing flake's "outputs" function.
type ResolvedInput struct {
	Name    string
	OutPath string
	Rev     string
	Outputs *value.Attrs // nil for "flake = false" inputs or failed sub-evaluation
}

// Result is a fully resolved and evaluated flake: every input fetched (or
// logged and skipped), "outputs" applied, and any warnings encountered along
// the way.
type Result struct {
	Root     *Flake
	Inputs   map[string]*ResolvedInput
	Outputs  *value.Attrs
	Warnings []string
}

// Resolve loads dir/flake.nix, fetches and resolves its full input graph via
// fetcher, and applies its "outputs" function.
func Resolve(dir string, fetcher Fetcher) (*Result, error) {
	fl, err := Load(dir)
	if err != nil {
		return nil, err
	}

	var warnings []string
	resolved, err := resolveLevel(fl.Inputs, nil, fetcher, &warnings)
	if err != nil {
		return nil, err
	}

	outputs, err := evaluateOutputs(fl, resolved)
	if err != nil {
		return nil, err
	}

	return &Result{Root: fl, Inputs: resolved, Outputs: outputs, Warnings: warnings}, nil
}

// resolveLevel resolves one flake's declared inputs into ResolvedInputs.
// Non-"follows" inputs are fetched and (if flakes) recursively loaded and
// resolved first; "follows" inputs are resolved in a second pass, checked
// first against this level's own resolved siblings and only then against
// parentResolved — the "own inputs then parent's" two-pass rule. A fetch or
// sub-evaluation failure is recorded in warnings and the input is skipped
// rather than aborting the whole resolution.
func resolveLevel(
	nodes map[string]*InputNode,
	parentResolved map[string]*ResolvedInput,
	fetcher Fetcher,
	warnings *[]string,
) (map[string]*ResolvedInput, error) {
	resolved := make(map[string]*ResolvedInput, len(nodes))
	names := sortedInputNames(nodes)
	// Inputs without child overrides are resolved first, so a child
	// "follows" naming a sibling finds that sibling already resolved.
	sort.SliceStable(names, func(i, j int) bool {
		return len(nodes[names[i]].Children) == 0 && len(nodes[names[j]].Children) > 0
	})

	for _, name := range names {
		node := nodes[name]
		if node.Follows != "" {
			continue
		}

		local, rev, err := fetcher.Fetch(node.URL)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("input %q: fetch failed: %v", name, err))

			continue
		}

		ri := &ResolvedInput{Name: name, OutPath: local, Rev: rev}

		if node.IsFlake {
			sub, err := Load(local)
			if err != nil {
				*warnings = append(*warnings, fmt.Sprintf("input %q: load failed: %v", name, err))
			} else {
				subNodes := applyChildOverrides(sub.Inputs, node.Children)

				subResolved, err := resolveLevel(subNodes, resolved, fetcher, warnings)
				if err != nil {
					*warnings = append(*warnings, fmt.Sprintf("input %q: resolving its inputs failed: %v", name, err))
				} else if outputs, err := evaluateOutputs(sub, subResolved); err != nil {
					*warnings = append(*warnings, fmt.Sprintf("input %q: evaluating its outputs failed: %v", name, err))
				} else {
					ri.Outputs = outputs
				}
			}
		}

		resolved[name] = ri
	}

	for _, name := range names {
		node := nodes[name]
		if node.Follows == "" {
			continue
		}

		if target, ok := resolved[node.Follows]; ok {
			resolved[name] = target

			continue
		}
		if target, ok := parentResolved[node.Follows]; ok {
			resolved[name] = target

			continue
		}

		*warnings = append(*warnings, fmt.Sprintf("input %q: follows %q could not be resolved", name, node.Follows))
	}

	return resolved, nil
}

// evaluateOutputs builds the argument attrset "outputs" is called with
// (self plus one attrset per resolved input, each carrying outPath/rev and
// its own merged-in outputs) and applies fl.OutputsFn.
//
// self is a fixed point in real Nix: its attributes are the very outputs
// being computed. This driver approximates that by building self first with
// just outPath/description, calling outputs, and then back-filling self with
// the result — which serves any outputs expression that merely returns
// self-referencing values without forcing self.* during its own evaluation.
// An outputs function that inspects self.* while computing its own result is
// out of scope here; see DESIGN.md.
func evaluateOutputs(fl *Flake, resolved map[string]*ResolvedInput) (*value.Attrs, error) {
	self := value.NewAttrs()
	self.Set("outPath", value.Path(fl.Dir))
	if fl.Description != "" {
		self.Set("description", value.String(fl.Description))
	}

	args := value.NewAttrs()
	args.Set("self", self)

	for _, name := range sortedResolvedNames(resolved) {
		ri := resolved[name]
		in := value.NewAttrs()
		in.Set("outPath", value.Path(ri.OutPath))
		if ri.Rev != "" {
			in.Set("rev", value.String(ri.Rev))
		}
		if ri.Outputs != nil {
			for _, k := range ri.Outputs.Keys() {
				v, _ := ri.Outputs.Get(k)
				in.Set(k, v)
			}
		}
		args.Set(name, in)
	}

	result, err := fl.evaluator.Apply(fl.OutputsFn, args)
	if err != nil {
		return nil, err
	}

	forced, err := value.Force(result)
	if err != nil {
		return nil, err
	}

	outAttrs, ok := forced.(*value.Attrs)
	if !ok {
		return nil, errs.New(errs.KindFlake, "flake outputs must evaluate to an attribute set, got %s", forced.Type())
	}

	for _, k := range outAttrs.Keys() {
		v, _ := outAttrs.Get(k)
		self.Set(k, v)
	}

	return outAttrs, nil
}

func sortedResolvedNames(m map[string]*ResolvedInput) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
