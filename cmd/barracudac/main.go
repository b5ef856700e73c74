package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/barracuda-lang/barracudac/pkg/compiler"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	outPath  string
	toStdout bool
	envFlags []string
	envFile  string
	precName string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "barracudac <input>",
		Short:         "barracudac compiles Barracuda source to stack bytecode",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileFile(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVarP(&outPath, "output", "o", "", "write .bct output to this path")
	rootCmd.Flags().BoolVar(&toStdout, "stdout", false, "write .bct output to stdout instead of a file")
	rootCmd.Flags().StringArrayVar(&envFlags, "env", nil, "declare a host environment variable: NAME[:INDEX], repeatable")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "load env_vars entries from a YAML file ({identifier, ptr_offset} list)")
	rootCmd.Flags().StringVar(&precName, "precision", "f32", "numeric precision: f32 or f64")

	return rootCmd
}

// compileFile reads filename, compiles it per the --env bindings, and writes
// the .bct result to -o/--stdout. Errors print to errOut and return non-nil
// so run() exits nonzero (§6's "exit code 0 on success, nonzero on error").
func compileFile(filename string, out, errOut io.Writer) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "barracudac: %v\n", err)
		return err
	}

	precision, err := parsePrecision(precName)
	if err != nil {
		fmt.Fprintf(errOut, "barracudac: %v\n", err)
		return err
	}

	envVars, err := parseEnvFlags(envFlags)
	if err != nil {
		fmt.Fprintf(errOut, "barracudac: %v\n", err)
		return err
	}
	if envFile != "" {
		fromFile, err := loadEnvFile(envFile)
		if err != nil {
			fmt.Fprintf(errOut, "barracudac: --env-file: %v\n", err)
			return err
		}
		envVars = append(fromFile, envVars...)
	}
	if err := resolveEnvIndices(envVars); err != nil {
		fmt.Fprintf(errOut, "barracudac: %v\n", err)
		return err
	}

	resp, cerr := compiler.Compile(compiler.CompileRequest{
		CodeText: string(src),
		EnvVars:  envVars,
	}, compiler.Options{Precision: precision})
	if cerr != nil {
		fmt.Fprintf(errOut, "barracudac: %v\n", cerr)
		return cerr
	}
	defer compiler.FreeCompileResponse(resp)

	switch {
	case toStdout:
		fmt.Fprint(out, resp.CodeText)
	case outPath != "":
		if err := os.WriteFile(outPath, []byte(resp.CodeText), 0o644); err != nil {
			fmt.Fprintf(errOut, "barracudac: %v\n", err)
			return err
		}
	default:
		fmt.Fprint(out, resp.CodeText)
	}

	return nil
}

func parsePrecision(s string) (compiler.Precision, error) {
	switch strings.ToLower(s) {
	case "f32", "":
		return compiler.F32, nil
	case "f64":
		return compiler.F64, nil
	default:
		return 0, fmt.Errorf("unknown --precision %q (want f32 or f64)", s)
	}
}

// parseEnvFlags turns repeated `--env NAME[:INDEX]` flags into raw
// EnvVarBinding entries (PtrOffset -1 when INDEX was omitted); index
// resolution happens afterwards in resolveEnvIndices, shared with
// --env-file entries.
func parseEnvFlags(flags []string) ([]compiler.EnvVarBinding, error) {
	bindings := make([]compiler.EnvVarBinding, len(flags))
	for i, f := range flags {
		name := f
		idx := -1
		if at := strings.IndexByte(f, ':'); at >= 0 {
			name = f[:at]
			n, err := strconv.Atoi(f[at+1:])
			if err != nil {
				return nil, fmt.Errorf("bad --env %q: index must be an integer", f)
			}
			idx = n
		}
		if name == "" {
			return nil, fmt.Errorf("bad --env %q: missing identifier", f)
		}
		bindings[i] = compiler.EnvVarBinding{Identifier: name, PtrOffset: idx}
	}
	return bindings, nil
}

// resolveEnvIndices assigns a PtrOffset to every binding left at -1 (index
// omitted), in order, skipping indices already explicitly claimed, and
// rejects two bindings explicitly claiming the same index (§6's --env
// rule: "omitted indices are assigned in declaration order starting at 0;
// duplicate indices are rejected").
func resolveEnvIndices(bindings []compiler.EnvVarBinding) error {
	explicit := make(map[int]string)
	for _, b := range bindings {
		if b.PtrOffset < 0 {
			continue
		}
		if prev, ok := explicit[b.PtrOffset]; ok {
			return fmt.Errorf("duplicate env index %d (%q and %q)", b.PtrOffset, prev, b.Identifier)
		}
		explicit[b.PtrOffset] = b.Identifier
	}

	next := 0
	nextFree := func() int {
		for explicit[next] != "" {
			next++
		}
		return next
	}
	for i := range bindings {
		if bindings[i].PtrOffset < 0 {
			idx := nextFree()
			explicit[idx] = bindings[i].Identifier
			bindings[i].PtrOffset = idx
		}
	}
	return nil
}
