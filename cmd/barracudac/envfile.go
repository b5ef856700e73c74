package main

import (
	"os"

	"github.com/barracuda-lang/barracudac/pkg/compiler"
	"gopkg.in/yaml.v3"
)

// envFileEntry is one `{identifier, ptr_offset}` entry of an --env-file
// document (§6's env_vars list is exactly this shape in YAML).
type envFileEntry struct {
	Identifier string `yaml:"identifier"`
	PtrOffset  *int   `yaml:"ptr_offset"`
}

// loadEnvFile reads a YAML document of env_vars entries from path. A
// missing ptr_offset is left unresolved (-1) the same way a bare `--env
// NAME` flag is, so it picks up the next free index once compileFile has
// merged it with any --env flags and resolveEnvIndices has run.
func loadEnvFile(path string) ([]compiler.EnvVarBinding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []envFileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	bindings := make([]compiler.EnvVarBinding, len(entries))
	for i, e := range entries {
		idx := -1
		if e.PtrOffset != nil {
			idx = *e.PtrOffset
		}
		bindings[i] = compiler.EnvVarBinding{Identifier: e.Identifier, PtrOffset: idx}
	}
	return bindings, nil
}
