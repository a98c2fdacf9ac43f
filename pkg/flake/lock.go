package flake

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/conneroisu/gix/internal/errs"
)

// lockSchema constrains flake.lock's shape before it is walked, catching a
// hand-edited or foreign-tool-produced lock file early rather than failing
// deep inside input resolution.
const lockSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "root", "nodes"],
  "properties": {
    "version": {"type": "integer"},
    "root": {"type": "string"},
    "nodes": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "type": {"type": "string"},
          "url": {"type": "string"},
          "path": {"type": "string"},
          "rev": {"type": "string"},
          "narHash": {"type": "string"},
          "inputs": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          }
        }
      }
    }
  }
}`

// LockedNode is one entry of flake.lock's "nodes" map: either the synthetic
// "root" node or a single resolved input.
type LockedNode struct {
	Type    string            `json:"type"`
	URL     string            `json:"url,omitempty"`
	Path    string            `json:"path,omitempty"`
	Rev     string            `json:"rev,omitempty"`
	NarHash string            `json:"narHash,omitempty"`
	Inputs  map[string]string `json:"inputs,omitempty"`
}

// Lock is the decoded shape of a flake.lock file.
type Lock struct {
	Version int                   `json:"version"`
	Root    string                `json:"root"`
	Nodes   map[string]LockedNode `json:"nodes"`
}

// LockStore reads and writes flake.lock files. The filesystem mutation is
// kept behind this interface so resolution logic can be exercised without
// ever touching disk.
type LockStore interface {
	Load(path string) (*Lock, error)
	Save(path string, lock *Lock) error
}

// FileLockStore is the on-disk LockStore implementation.
type FileLockStore struct{}

func (FileLockStore) Load(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errs.Wrap(errs.KindFlake, err)
	}

	schema, err := compileLockSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(generic); err != nil {
		return nil, errs.Wrap(errs.KindFlake, err)
	}

	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, errs.Wrap(errs.KindFlake, err)
	}

	return &lock, nil
}

func (FileLockStore) Save(path string, lock *Lock) error {
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return errs.Wrap(errs.KindFlake, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.KindIO, err)
	}

	return nil
}

func compileLockSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("flake-lock.json", strings.NewReader(lockSchema)); err != nil {
		return nil, errs.Wrap(errs.KindFlake, err)
	}

	schema, err := compiler.Compile("flake-lock.json")
	if err != nil {
		return nil, errs.Wrap(errs.KindFlake, err)
	}

	return schema, nil
}

// BuildLock renders a resolved Result into the flake.lock shape, recording
// every resolved input as a "path"-type node pinned to its pseudo-rev.
func BuildLock(result *Result) *Lock {
	root := LockedNode{Type: "root", Inputs: map[string]string{}}
	nodes := map[string]LockedNode{}

	for _, name := range sortedResolvedNames(result.Inputs) {
		ri := result.Inputs[name]
		root.Inputs[name] = name
		nodes[name] = LockedNode{Type: "path", Path: ri.OutPath, Rev: ri.Rev}
	}
	nodes["root"] = root

	return &Lock{Version: 7, Root: "root", Nodes: nodes}
}
