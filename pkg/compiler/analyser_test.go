package compiler

import (
	"strings"
	"testing"
)

func analyse(t *testing.T, src string, envBindings map[string]int) (*SourceUnit, *CompileError) {
	t.Helper()
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	unit, perr := Parse(tokens, src)
	if perr != nil {
		t.Fatalf("Parse(%q): %v", src, perr)
	}
	a := NewAnalyser(F32, envBindings)
	return unit, a.Analyse(unit)
}

func TestAnalyseQualifierErrorOnConstAssign(t *testing.T) {
	_, err := analyse(t, `let x: i32 = 3; x = 5;`, nil)
	if err == nil || err.Kind != KindQualifier {
		t.Fatalf("got %v, want a qualifier error", err)
	}
}

func TestAnalyseMutAssignCompiles(t *testing.T) {
	_, err := analyse(t, `let mut x: i32 = 3; x = 5;`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyseDivisionByLiteralZeroRejected(t *testing.T) {
	cases := []string{
		`let x = 1 / 0;`,
		`let x = 1 % 0;`,
		`let x = 1.0 / 0.0;`,
	}
	for _, src := range cases {
		_, err := analyse(t, src, nil)
		if err == nil || err.Kind != KindType {
			t.Errorf("%q: got %v, want a type error", src, err)
		}
	}
}

func TestAnalyseDivisionByNonLiteralZeroAllowed(t *testing.T) {
	_, err := analyse(t, `let mut d = 0; let x = 1 / d;`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyseOverloadResolutionByArgType(t *testing.T) {
	src := `
		fn f(a: i32) -> i32 { return a + 1; }
		fn f(a: f32) -> f32 { return a + 1.0; }
		print(f(2));
		print(f(2.0));
	`
	_, err := analyse(t, src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyseUnknownOverloadIsOverloadError(t *testing.T) {
	src := `
		fn f(a: i32) -> i32 { return a; }
		print(f(true));
	`
	_, err := analyse(t, src, nil)
	if err == nil || err.Kind != KindOverload {
		t.Fatalf("got %v, want an overload error", err)
	}
}

func TestAnalyseExternHostIndexBinding(t *testing.T) {
	src := `extern count; print(count);`
	if _, err := analyse(t, src, map[string]int{"count": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := Compile(CompileRequest{CodeText: src, EnvVars: []EnvVarBinding{{Identifier: "count", PtrOffset: 3}}}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.EnvVars) != 1 || resp.EnvVars[0].HostIndex != 3 {
		t.Errorf("got env vars %v, want count bound to host index 3", resp.EnvVars)
	}
}

func TestAnalyseUndeclaredIdentifierIsResolutionError(t *testing.T) {
	_, err := analyse(t, `print(missing);`, nil)
	if err == nil || err.Kind != KindResolution {
		t.Fatalf("got %v, want a resolution error", err)
	}
}

func TestAnalyseEnvVarIndexingIsNumeric(t *testing.T) {
	_, err := analyse(t, `extern xs; print(xs[0] + 1);`, map[string]int{"xs": 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestAnalyseStrictOverloadWinsOverLooserMatch is a regression test: several
// candidates being merely assignable must not report an ambiguous call when
// exactly one of them is a strict (exact type, exact qualifier) match. 1000000
// types as i32 (narrowest-int rule), which is assignable to both an i32 and
// an i64 parameter, but only the i32 overload is a strict match.
func TestAnalyseStrictOverloadWinsOverLooserMatch(t *testing.T) {
	src := `
		fn f(a: i32) -> i32 { return a; }
		fn f(a: i64) -> i64 { return a; }
		print(f(1000000));
	`
	_, err := analyse(t, src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyseAmbiguousOverloadListsCandidateSignatures(t *testing.T) {
	src := `
		fn f(a: i32, b: i64) -> i32 { return a; }
		fn f(a: i64, b: i32) -> i32 { return b; }
		print(f(1, 1));
	`
	_, err := analyse(t, src, nil)
	if err == nil || err.Kind != KindOverload {
		t.Fatalf("got %v, want an overload error", err)
	}
	if !strings.Contains(err.Message, "f(i32, i64)") || !strings.Contains(err.Message, "f(i64, i32)") {
		t.Errorf("expected the error to list both candidate signatures, got %q", err.Message)
	}
}

func TestAnalyseNoMatchOverloadListsCandidateSignatures(t *testing.T) {
	src := `
		fn f(a: i32) -> i32 { return a; }
		print(f(true));
	`
	_, err := analyse(t, src, nil)
	if err == nil || err.Kind != KindOverload {
		t.Fatalf("got %v, want an overload error", err)
	}
	if !strings.Contains(err.Message, "f(i32)") {
		t.Errorf("expected the error to name the candidate signature, got %q", err.Message)
	}
}

// TestAnalyseWideTypesAcceptedAtTypecheck covers the resolved Open Question:
// i128/f128 are valid type atoms through typecheck and only fail once a
// value of that width would actually be generated.
func TestAnalyseWideTypesAcceptedAtTypecheck(t *testing.T) {
	cases := []string{
		`fn f(x: i128) -> none {}`,
		`let p: *i128;`,
		`let mut q: f128;`,
	}
	for _, src := range cases {
		if _, err := analyse(t, src, nil); err != nil {
			t.Errorf("%q: unexpected error: %v", src, err)
		}
	}
}
