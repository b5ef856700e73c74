package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// E2EScenarioSpec is one §8 scenario (S1-S6) driven end-to-end through the
// CLI rather than pkg/compiler directly, mirroring
// raymyers-ralph-cc-go/cmd/ralph-cc/integration_test.go's YAML-fixture
// e2e test shape (name/input/expect, substring checks against the tool's
// actual stdout).
type E2EScenarioSpec struct {
	Name        string   `yaml:"name"`
	Input       string   `yaml:"input"`
	Precision   string   `yaml:"precision,omitempty"`
	Env         []string `yaml:"env,omitempty"`
	Expect      []string `yaml:"expect,omitempty"`
	ExpectError bool     `yaml:"expect_error,omitempty"`
}

type E2EScenarioFile struct {
	Tests []E2EScenarioSpec `yaml:"tests"`
}

func TestE2EScenariosYAML(t *testing.T) {
	data, err := os.ReadFile("testdata/e2e.yaml")
	if err != nil {
		t.Fatalf("testdata/e2e.yaml not found: %v", err)
	}

	var file E2EScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("failed to parse e2e.yaml: %v", err)
	}
	if len(file.Tests) == 0 {
		t.Fatalf("e2e.yaml declared no tests")
	}

	for _, tc := range file.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			path := writeTempSource(t, tc.Input)

			args := []string{"--stdout"}
			if tc.Precision != "" {
				args = append(args, "--precision", tc.Precision)
			}
			for _, e := range tc.Env {
				args = append(args, "--env", e)
			}
			args = append(args, path)

			var out, errOut bytes.Buffer
			cmd := newRootCmd(&out, &errOut)
			cmd.SetArgs(args)
			err := cmd.Execute()

			if tc.ExpectError {
				if err == nil {
					t.Fatalf("expected a compile error, got none; stdout=%s", out.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute: %v, stderr=%s", err, errOut.String())
			}
			output := out.String()
			for _, want := range tc.Expect {
				if !strings.Contains(output, want) {
					t.Errorf("expected .bct output to contain %q\ngot:\n%s", want, output)
				}
			}
		})
	}
}
