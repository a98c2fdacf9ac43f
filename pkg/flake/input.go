package flake

import (
	"sort"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// InputNode is a flake's declared dependency on another flake, parsed from
// its "inputs.<name>" attribute set before anything has been fetched.
type InputNode struct {
	Name    string
	URL     string
	IsFlake bool // defaults to true; false for "flake = false" raw-source inputs
	Follows string
	// Children holds nested "inputs.<name>.inputs.<child>" overrides this
	// flake applies to the named input's own inputs.
	Children map[string]*InputNode
}

// parseInputNodes walks a forced "inputs" attribute set into InputNodes.
// Dotted forms like "inputs.foo.url" are already merged into nested attrs by
// the evaluator's own attribute-set construction, so no flattening is needed
// here beyond recursing into "inputs.<name>.inputs".
func parseInputNodes(attrs *value.Attrs) (map[string]*InputNode, error) {
	nodes := make(map[string]*InputNode, attrs.Len())

	for _, name := range attrs.Keys() {
		raw, _ := attrs.Get(name)
		forced, err := value.Force(raw)
		if err != nil {
			return nil, err
		}

		spec, ok := forced.(*value.Attrs)
		if !ok {
			return nil, errs.New(errs.KindFlake, "input %q must be an attribute set, got %s", name, forced.Type())
		}

		node := &InputNode{Name: name, IsFlake: true}

		if urlV, ok := spec.Get("url"); ok {
			s, err := forceString(urlV)
			if err != nil {
				return nil, errs.Wrap(errs.KindFlake, err)
			}
			node.URL = s
		}

		if flakeV, ok := spec.Get("flake"); ok {
			forcedFlake, err := value.Force(flakeV)
			if err != nil {
				return nil, err
			}
			if b, ok := forcedFlake.(value.Bool); ok {
				node.IsFlake = bool(b)
			}
		}

		if followsV, ok := spec.Get("follows"); ok {
			forcedFollows, err := value.Force(followsV)
			if err != nil {
				return nil, err
			}
			if s, ok := forcedFollows.(value.String); ok {
				node.Follows = string(s)
			}
		}

		if childrenV, ok := spec.Get("inputs"); ok {
			forcedChildren, err := value.Force(childrenV)
			if err != nil {
				return nil, err
			}
			if childAttrs, ok := forcedChildren.(*value.Attrs); ok {
				children, err := parseInputNodes(childAttrs)
				if err != nil {
					return nil, err
				}
				node.Children = children
			}
		}

		nodes[name] = node
	}

	return nodes, nil
}

// applyChildOverrides rewrites subNodes (an already-fetched input's own
// declared inputs) according to overrides the referencing flake supplied
// under "inputs.<name>.inputs.<child>". An override with neither a follows
// target nor a URL removes the child input entirely (the "empty-string
// removal" case): the sub-flake's own declaration is dropped, letting the
// parent's absence of a replacement stand in for an explicit detach.
func applyChildOverrides(subNodes map[string]*InputNode, overrides map[string]*InputNode) map[string]*InputNode {
	for name, override := range overrides {
		switch {
		case override.Follows != "":
			if existing, ok := subNodes[name]; ok {
				existing.Follows = override.Follows
				existing.URL = ""
			} else {
				subNodes[name] = &InputNode{Name: name, Follows: override.Follows}
			}
		case override.URL != "":
			if existing, ok := subNodes[name]; ok {
				existing.URL = override.URL
				existing.Follows = ""
			} else {
				subNodes[name] = &InputNode{Name: name, URL: override.URL, IsFlake: true}
			}
		default:
			delete(subNodes, name)
		}
	}

	return subNodes
}

func sortedInputNames(nodes map[string]*InputNode) []string {
	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

func forceString(v value.Value) (string, error) {
	forced, err := value.Force(v)
	if err != nil {
		return "", err
	}
	s, ok := forced.(value.String)
	if !ok {
		return "", errs.New(errs.KindFlake, "expected a string, got %s", forced.Type())
	}

	return string(s), nil
}
