package main

import (
	"bytes"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	bindings, err := loadEnvFile("testdata/env.yaml")
	if err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if len(bindings) != 2 {
		t.Fatalf("got %d bindings, want 2", len(bindings))
	}
	if bindings[0].Identifier != "count" || bindings[0].PtrOffset != 0 {
		t.Errorf("got %+v, want count at index 0", bindings[0])
	}
	if bindings[1].Identifier != "scale" || bindings[1].PtrOffset != -1 {
		t.Errorf("got %+v, want scale with an unresolved index", bindings[1])
	}
}

func TestCompileWithEnvFile(t *testing.T) {
	path := writeTempSource(t, `extern count; extern scale; print(count * scale);`)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--stdout", "--env-file", "testdata/env.yaml", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v, stderr=%s", err, errOut.String())
	}
	if out.Len() == 0 {
		t.Errorf("expected .bct output, got empty")
	}
}
