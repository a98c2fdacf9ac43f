package flake

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/pkg/store"
)

// Fetcher resolves a flake input URL to a local, already-available
// directory. Real network fetching (tarballs, git, github: shorthands) is an
// external collaborator this interface keeps out of the evaluation core;
// see RegistryFetcher for the deterministic local-only implementation used
// here and in tests.
type Fetcher interface {
	Fetch(url string) (path string, rev string, err error)
}

// RegistryFetcher resolves "path:" URLs relative to a base directory, and
// anything else via a static name/URL-to-local-path table supplied by the
// caller (standing in for a flake registry). It never touches the network.
type RegistryFetcher struct {
	baseDir  string
	registry map[string]string
}

// NewRegistryFetcher builds a RegistryFetcher rooted at baseDir (used to
// resolve relative "path:" URLs) consulting registry for anything else.
func NewRegistryFetcher(baseDir string, registry map[string]string) *RegistryFetcher {
	return &RegistryFetcher{baseDir: baseDir, registry: registry}
}

func (f *RegistryFetcher) Fetch(url string) (string, string, error) {
	if rest, ok := strings.CutPrefix(url, "path:"); ok {
		dir := rest
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(f.baseDir, dir)
		}
		if _, err := os.Stat(dir); err != nil {
			return "", "", errs.Wrap(errs.KindIO, err)
		}

		return dir, pseudoRev(dir), nil
	}

	if local, ok := f.registry[url]; ok {
		if _, err := os.Stat(local); err != nil {
			return "", "", errs.Wrap(errs.KindIO, err)
		}

		return local, pseudoRev(local), nil
	}

	return "", "", errs.New(errs.KindFlake, "no registry entry for input url %q (network fetching is not available)", url)
}

// pseudoRev derives a stable, content-independent stand-in for a git
// revision from a resolved input's path, since this driver never clones a
// real repository. It is not a git commit hash.
func pseudoRev(path string) string {
	sum := sha256.Sum256([]byte(path))

	return store.EncodeBase32(sum[:])[:12]
}
