package builtins

import (
	"os"
	"path/filepath"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerPath installs path/filesystem primops. readFile, readDir and
// pathExists hit the real filesystem (there is no sandboxed store here);
// dirOf/baseNameOf are pure string/path manipulation.
func (r *registry) registerPath() {
	r.fn("baseNameOf", 1, func(a []value.Value) (value.Value, error) {
		s, err := pathLikeString(a[0])
		if err != nil {
			return nil, err
		}

		return value.String(filepath.Base(s)), nil
	})

	r.fn("dirOf", 1, func(a []value.Value) (value.Value, error) {
		switch v := a[0].(type) {
		case value.Path:
			return value.Path(filepath.Dir(string(v))), nil
		case value.String:
			return value.String(filepath.Dir(string(v))), nil
		default:
			return nil, errs.New(errs.KindTypeError, "dirOf expects a path or string, got %v", v.Type())
		}
	})

	r.fn("pathExists", 1, func(a []value.Value) (value.Value, error) {
		s, err := pathLikeString(a[0])
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(r.host.BaseDir() + "/" + s)
		if statErr == nil {
			return value.Bool(true), nil
		}
		if _, statErr2 := os.Stat(s); statErr2 == nil {
			return value.Bool(true), nil
		}

		return value.Bool(false), nil
	})

	r.fn("readFile", 1, func(a []value.Value) (value.Value, error) {
		s, err := pathLikeString(a[0])
		if err != nil {
			return nil, err
		}

		data, readErr := os.ReadFile(s)
		if readErr != nil {
			return nil, errs.Wrap(errs.KindIO, readErr)
		}

		return value.String(string(data)), nil
	})

	r.fn("readDir", 1, func(a []value.Value) (value.Value, error) {
		s, err := pathLikeString(a[0])
		if err != nil {
			return nil, err
		}

		entries, readErr := os.ReadDir(s)
		if readErr != nil {
			return nil, errs.Wrap(errs.KindIO, readErr)
		}

		out := value.NewAttrs()
		for _, ent := range entries {
			kind := "regular"
			switch {
			case ent.IsDir():
				kind = "directory"
			case ent.Type()&os.ModeSymlink != 0:
				kind = "symlink"
			}
			out.Set(ent.Name(), value.String(kind))
		}

		return out, nil
	})

	r.fn("readFileType", 1, func(a []value.Value) (value.Value, error) {
		s, err := pathLikeString(a[0])
		if err != nil {
			return nil, err
		}

		info, statErr := os.Lstat(s)
		if statErr != nil {
			return nil, errs.Wrap(errs.KindIO, statErr)
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			return value.String("symlink"), nil
		case info.IsDir():
			return value.String("directory"), nil
		default:
			return value.String("regular"), nil
		}
	})

	r.fn("getEnv", 1, func(a []value.Value) (value.Value, error) {
		if _, ok := a[0].(value.String); !ok {
			return nil, errs.New(errs.KindTypeError, "getEnv expects a string, got %v", a[0].Type())
		}

		// Pure mode: environment variables are never read, matching Nix's
		// "--pure-eval" behaviour.
		return value.String(""), nil
	})

	r.fn("placeholder", 1, func(a []value.Value) (value.Value, error) {
		name, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "placeholder expects a string, got %v", a[0].Type())
		}

		return value.String("/" + string(name) + "-placeholder"), nil
	})

	r.fn("fetchurl", 1, func(a []value.Value) (value.Value, error) {
		return nil, errs.New(errs.KindIO, "fetchurl: network access is not available in this evaluator")
	})

	r.fn("fetchTarball", 1, func(a []value.Value) (value.Value, error) {
		return nil, errs.New(errs.KindIO, "fetchTarball: network access is not available in this evaluator")
	})
}

func pathLikeString(v value.Value) (string, error) {
	switch v := v.(type) {
	case value.Path:
		return string(v), nil
	case value.String:
		return string(v), nil
	default:
		return "", errs.New(errs.KindTypeError, "expected a path or string, got %v", v.Type())
	}
}
