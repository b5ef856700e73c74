package compiler

import "testing"

func TestEstimateStackDepthLinear(t *testing.T) {
	instrs := []Instruction{
		{Op: OpPUSH, Operand: 0},
		{Op: OpPUSH, Operand: 0},
		{Op: OpOP, Operator: OperatorAdd},
		{Op: OpPOP},
		{Op: OpHLT},
	}
	got, err := estimateStackDepth(instrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestEstimateStackDepthLoopConverges(t *testing.T) {
	// 0: PUSH   (depth 1)
	// 1: JZ 4   (depth 0 after pop)
	// 2: PUSH   (depth 1)
	// 3: JMP 1
	// 4: HLT
	instrs := []Instruction{
		{Op: OpPUSH, Operand: 0},
		{Op: OpJZ, Operand: 4},
		{Op: OpPUSH, Operand: 0},
		{Op: OpJMP, Operand: 1},
		{Op: OpHLT},
	}
	got, err := estimateStackDepth(instrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

// TestEstimateStackDepthVisitsCallees is a regression test: a function
// body reachable only via CALL (placed after the top-level HLT, with no
// fallthrough into it) must still contribute to the estimate.
func TestEstimateStackDepthVisitsCallees(t *testing.T) {
	instrs := []Instruction{
		{Op: OpCALL, Operand: 2, CallArgs: 0, ReturnsValue: true}, // 0
		{Op: OpHLT},                                               // 1
		{Op: OpPUSH, Operand: 0},                                  // 2: callee entry
		{Op: OpPUSH, Operand: 0},                                  // 3
		{Op: OpOP, Operator: OperatorAdd},                         // 4
		{Op: OpRET, ReturnsValue: true},                           // 5
	}
	got, err := estimateStackDepth(instrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("got %d, want 2 (the callee's own peak depth)", got)
	}
}

// TestEstimateStackDepthRejectsNonConvergingLoop covers §4.7's entry/exit
// depth-equality requirement: a loop body that nets a push per iteration
// (no matching pop before the backward jump) must be rejected instead of
// silently growing the estimate or hanging the walk.
func TestEstimateStackDepthRejectsNonConvergingLoop(t *testing.T) {
	// 0: PUSH    (loop entry at depth 0, exits at depth 1)
	// 1: JMP 0   (backward edge: entry depth 0 != exit depth 1)
	instrs := []Instruction{
		{Op: OpPUSH, Operand: 0},
		{Op: OpJMP, Operand: 0},
	}
	_, err := estimateStackDepth(instrs)
	if err == nil || err.Kind != KindGeneration {
		t.Fatalf("got %v, want a KindGeneration error", err)
	}
}

// TestCompileFibonacciRecommendsEnoughStack is §8's S1, with an explicit
// parameter type — this grammar requires a type annotation on every
// parameter (§4.4's let-construct rule doesn't extend to params).
func TestCompileFibonacciRecommendsEnoughStack(t *testing.T) {
	src := `fn fib(n: i32) { let mut a = 0; let mut b = 1; for (let mut i = 0; i < n; i = i + 1) { let temp = a + b; a = b; b = temp; print(a); } } extern count; fib(count);`
	resp, err := Compile(CompileRequest{CodeText: src, EnvVars: []EnvVarBinding{{Identifier: "count", PtrOffset: 0}}}, Options{Precision: F64})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if resp.RecommendedStackSize < 5 {
		t.Errorf("got recommended_stack_size = %d, want >= 5", resp.RecommendedStackSize)
	}
}
