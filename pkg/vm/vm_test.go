package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/barracuda-lang/barracudac/pkg/compiler"
	"github.com/barracuda-lang/barracudac/pkg/vm"
)

func compileOrFatal(t *testing.T, src string, precision compiler.Precision, envVars []compiler.EnvVarBinding) *compiler.CompileResponse {
	t.Helper()
	resp, err := compiler.Compile(compiler.CompileRequest{CodeText: src, EnvVars: envVars}, compiler.Options{Precision: precision})
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return resp
}

func run(t *testing.T, resp *compiler.CompileResponse, host map[int]float64) string {
	t.Helper()
	prog, err := compiler.Decode(resp.CodeText)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	prog.UserSpace = resp.UserSpace
	prog.EnvVars = resp.EnvVars
	prog.Precision = resp.Precision

	var out bytes.Buffer
	state := vm.New(prog, host)
	state.Output = &out
	if err := state.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

// TestFibonacciScenario is §8's S1: running with count=10 prints the first
// 10 Fibonacci numbers.
func TestFibonacciScenario(t *testing.T) {
	src := `fn fib(n: i32) { let mut a = 0; let mut b = 1; for (let mut i = 0; i < n; i = i + 1) { let temp = a + b; a = b; b = temp; print(a); } } extern count; fib(count);`
	resp := compileOrFatal(t, src, compiler.F64, []compiler.EnvVarBinding{{Identifier: "count", PtrOffset: 0}})

	got := run(t, resp, map[int]float64{0: 10})
	want := "1\n1\n2\n3\n5\n8\n13\n21\n34\n55\n"
	if got != want {
		t.Errorf("got output:\n%q\nwant:\n%q", got, want)
	}
}

// TestConstantArrayIndexing is §8's S3.
func TestConstantArrayIndexing(t *testing.T) {
	resp := compileOrFatal(t, `let xs: [i32; 4] = [1,2,3,4]; print(xs[2]);`, compiler.F64, nil)
	got := run(t, resp, nil)
	if got != "3\n" {
		t.Errorf("got %q, want %q", got, "3\n")
	}
}

// TestOverloadResolutionOutput is §8's S4.
func TestOverloadResolutionOutput(t *testing.T) {
	src := `
		fn f(a: i32) -> i32 { return a + 1; }
		fn f(a: f32) -> f32 { return a + 1.0; }
		print(f(2));
		print(f(2.0));
	`
	resp := compileOrFatal(t, src, compiler.F32, nil)
	got := run(t, resp, nil)
	if got != "3\n3\n" {
		t.Errorf("got %q, want %q", got, "3\n3\n")
	}
}

// TestStringPackingPrint is §8's S6: packing {'h','i','\n','\0'} into one
// f32 slot and printing it back out.
func TestStringPackingPrint(t *testing.T) {
	resp := compileOrFatal(t, `let s = "hi\n"; print(s);`, compiler.F32, nil)
	got := run(t, resp, nil)
	if got != "hi\n" {
		t.Errorf("got %q, want %q", got, "hi\n")
	}
}

func TestRecursiveCallFrameIsolation(t *testing.T) {
	src := `
		fn fact(n: i32) -> i32 {
			if (n < 2) { return 1; }
			return n * fact(n - 1);
		}
		print(fact(5));
	`
	resp := compileOrFatal(t, src, compiler.F64, nil)
	got := run(t, resp, nil)
	if got != "120\n" {
		t.Errorf("got %q, want %q", got, "120\n")
	}
}

func TestEnvVarArithmetic(t *testing.T) {
	src := `extern scale; print(scale * 2);`
	resp := compileOrFatal(t, src, compiler.F64, []compiler.EnvVarBinding{{Identifier: "scale", PtrOffset: 0}})
	got := run(t, resp, map[int]float64{0: 21})
	if strings.TrimSpace(got) != "42" {
		t.Errorf("got %q, want %q", got, "42\n")
	}
}
