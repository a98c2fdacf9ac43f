// Package flake implements a flake.nix orchestration driver: loading a
// flake's description/inputs/outputs, fetching and locking its inputs, and
// applying its outputs function to produce the final outputs attrset.
//
// Network access and on-disk lock mutation are the two genuinely external
// concerns here, so they sit behind the Fetcher and LockStore interfaces;
// everything else (parsing flake.nix, resolving "follows", building the
// inputs attrset, calling the outputs lambda) runs through pkg/eval exactly
// like any other Nix expression.
package flake
