package flake_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/gix/internal/value"
	"github.com/conneroisu/gix/pkg/flake"
)

func writeFlake(t *testing.T, dir, source string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flake.nix"), []byte(source), 0o644))
}

func TestResolveWithPathInput(t *testing.T) {
	root := t.TempDir()
	depDir := filepath.Join(root, "deps", "greeter")

	writeFlake(t, depDir, `{
  description = "greeter";
  outputs = { self, ... }: { value = 42; };
}`)

	writeFlake(t, root, `{
  description = "root flake";
  inputs = {
    greeter = { url = "path:./deps/greeter"; };
  };
  outputs = { self, greeter, ... }: { result = greeter.value + 1; };
}`)

	fetcher := flake.NewRegistryFetcher(root, nil)
	result, err := flake.Resolve(root, fetcher)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	resultVal, ok := result.Outputs.Get("result")
	require.True(t, ok)
	forced, err := value.Force(resultVal)
	require.NoError(t, err)
	assert.Equal(t, value.Int(43), forced)

	greeterInput, ok := result.Inputs["greeter"]
	require.True(t, ok)
	assert.Equal(t, depDir, greeterInput.OutPath)
	assert.NotEmpty(t, greeterInput.Rev)
}

func TestResolveSkipsUnresolvableInput(t *testing.T) {
	root := t.TempDir()

	writeFlake(t, root, `{
  inputs = {
    missing = { url = "path:./nowhere"; };
  };
  outputs = { self, ... }: { ok = true; };
}`)

	fetcher := flake.NewRegistryFetcher(root, nil)
	result, err := flake.Resolve(root, fetcher)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "missing")

	okVal, ok := result.Outputs.Get("ok")
	require.True(t, ok)
	forced, err := value.Force(okVal)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), forced)
}

func TestFollowsResolvesToSiblingInput(t *testing.T) {
	root := t.TempDir()
	nixpkgsDir := filepath.Join(root, "deps", "nixpkgs")
	libDir := filepath.Join(root, "deps", "lib")

	writeFlake(t, nixpkgsDir, `{
  outputs = { self, ... }: { marker = "nixpkgs"; };
}`)

	writeFlake(t, libDir, `{
  inputs.nixpkgs.url = "path:../nixpkgs";
  outputs = { self, nixpkgs, ... }: { markerFromLib = nixpkgs.marker; };
}`)

	writeFlake(t, root, `{
  inputs = {
    nixpkgs.url = "path:./deps/nixpkgs";
    lib = {
      url = "path:./deps/lib";
      inputs.nixpkgs.follows = "nixpkgs";
    };
  };
  outputs = { self, nixpkgs, lib, ... }: { seenBySub = lib.markerFromLib; seenDirectly = nixpkgs.marker; };
}`)

	fetcher := flake.NewRegistryFetcher(root, nil)
	result, err := flake.Resolve(root, fetcher)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	seenBySub, ok := result.Outputs.Get("seenBySub")
	require.True(t, ok)
	forced, err := value.Force(seenBySub)
	require.NoError(t, err)
	assert.Equal(t, value.String("nixpkgs"), forced)
}

func TestBuildLockRoundTrip(t *testing.T) {
	root := t.TempDir()
	depDir := filepath.Join(root, "dep")
	writeFlake(t, depDir, `{ outputs = { self, ... }: { }; }`)
	writeFlake(t, root, `{
  inputs.dep.url = "path:./dep";
  outputs = { self, dep, ... }: { };
}`)

	fetcher := flake.NewRegistryFetcher(root, nil)
	result, err := flake.Resolve(root, fetcher)
	require.NoError(t, err)

	lock := flake.BuildLock(result)
	assert.Equal(t, "root", lock.Root)
	require.Contains(t, lock.Nodes, "dep")
	assert.Equal(t, "path", lock.Nodes["dep"].Type)

	lockPath := filepath.Join(root, "flake.lock")
	store := flake.FileLockStore{}
	require.NoError(t, store.Save(lockPath, lock))

	loaded, err := store.Load(lockPath)
	require.NoError(t, err)
	if diff := cmp.Diff(lock, loaded); diff != "" {
		t.Errorf("lock file did not round-trip (-want +got):\n%s", diff)
	}
}
