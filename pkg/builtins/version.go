package builtins

import (
	"strings"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerVersion installs Nix's version-string comparison helpers, used
// heavily by nixpkgs to order package versions.
func (r *registry) registerVersion() {
	r.fn("splitVersion", 1, func(a []value.Value) (value.Value, error) {
		s, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "splitVersion expects a string, got %v", a[0].Type())
		}

		parts := splitVersionParts(string(s))
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String(p)
		}

		return value.NewList(out...), nil
	})

	r.fn("compareVersions", 2, func(a []value.Value) (value.Value, error) {
		s1, ok1 := a[0].(value.String)
		s2, ok2 := a[1].(value.String)
		if !ok1 || !ok2 {
			return nil, errs.New(errs.KindTypeError, "compareVersions expects two strings")
		}

		return value.Int(compareVersionStrings(string(s1), string(s2))), nil
	})

	r.fn("parseDrvName", 1, func(a []value.Value) (value.Value, error) {
		s, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "parseDrvName expects a string, got %v", a[0].Type())
		}

		name, version := splitDrvName(string(s))
		out := value.NewAttrs()
		out.Set("name", value.String(name))
		out.Set("version", value.String(version))

		return out, nil
	})
}

// splitVersionParts breaks a version string on ".", "-", and digit/letter
// boundaries, matching Nix's DrvName component splitting.
func splitVersionParts(v string) []string {
	var parts []string
	var cur strings.Builder
	var curIsDigit bool

	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}

	for i, r := range v {
		if r == '.' || r == '-' {
			flush()

			continue
		}
		isDigit := r >= '0' && r <= '9'
		if i > 0 && cur.Len() > 0 && isDigit != curIsDigit {
			flush()
		}
		curIsDigit = isDigit
		cur.WriteRune(r)
	}
	flush()

	return parts
}

// compareVersionStrings implements Nix's component-wise version ordering:
// numeric components compare numerically, non-numeric lexically, and a
// missing trailing component sorts before "pre"-style pre-release tags.
func compareVersionStrings(a, b string) int {
	pa := splitVersionParts(a)
	pb := splitVersionParts(b)

	for i := 0; i < len(pa) || i < len(pb); i++ {
		var ca, cb string
		if i < len(pa) {
			ca = pa[i]
		}
		if i < len(pb) {
			cb = pb[i]
		}
		if ca == cb {
			continue
		}

		aNum, aIsNum := parseUint(ca)
		bNum, bIsNum := parseUint(cb)
		switch {
		case aIsNum && bIsNum:
			if aNum != bNum {
				if aNum < bNum {
					return -1
				}

				return 1
			}
		case ca == "":
			return -1
		case cb == "":
			return 1
		default:
			if ca < cb {
				return -1
			}

			return 1
		}
	}

	return 0
}

func parseUint(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}

	return n, true
}

// splitDrvName splits a "name-version" store-name string at the last
// hyphen preceding a component that starts with a digit, matching Nix's
// parseDrvName heuristic.
func splitDrvName(s string) (name, version string) {
	parts := strings.Split(s, "-")
	for i := len(parts) - 1; i > 0; i-- {
		if len(parts[i]) > 0 && parts[i][0] >= '0' && parts[i][0] <= '9' {
			return strings.Join(parts[:i], "-"), strings.Join(parts[i:], "-")
		}
	}

	return s, ""
}
