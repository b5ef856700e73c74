package compiler

import "testing"

func mustParse(t *testing.T, src string) *SourceUnit {
	t.Helper()
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	unit, err := Parse(tokens, src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return unit
}

func TestParseLetForms(t *testing.T) {
	unit := mustParse(t, `
		let a: i32 = 1;
		let mut b: i32 = 2;
		let c = 3;
		let mut d = 4;
		let e: i32;
		let mut f: i32;
	`)
	if len(unit.Stmts) != 6 {
		t.Fatalf("got %d stmts, want 6", len(unit.Stmts))
	}
	want := []struct {
		qualExplicit bool
		qual         Qualifier
		hasType      bool
		hasInit      bool
	}{
		{false, Const, true, true},
		{true, Mut, true, true},
		{false, Const, false, true},
		{true, Mut, false, true},
		{false, Const, true, false},
		{true, Mut, true, false},
	}
	for i, w := range want {
		let, ok := unit.Stmts[i].(*LetStmt)
		if !ok {
			t.Fatalf("stmt %d: got %T, want *LetStmt", i, unit.Stmts[i])
		}
		if let.QualifierExplicit != w.qualExplicit || let.Qualifier != w.qual {
			t.Errorf("stmt %d: qualifier = (%v,%v), want (%v,%v)", i, let.QualifierExplicit, let.Qualifier, w.qualExplicit, w.qual)
		}
		if (let.DeclaredType != nil) != w.hasType {
			t.Errorf("stmt %d: hasType = %v, want %v", i, let.DeclaredType != nil, w.hasType)
		}
		if (let.Init != nil) != w.hasInit {
			t.Errorf("stmt %d: hasInit = %v, want %v", i, let.Init != nil, w.hasInit)
		}
	}
}

func TestParseFuncDecl(t *testing.T) {
	unit := mustParse(t, `fn add(a: i32, mut b: i32) -> i32 { return a + b; }`)
	if len(unit.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1", len(unit.Stmts))
	}
	fn, ok := unit.Stmts[0].(*FuncDecl)
	if !ok {
		t.Fatalf("got %T, want *FuncDecl", unit.Stmts[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected decl: %+v", fn)
	}
	if fn.Params[0].QualifierExplicit || fn.Params[0].Qualifier != Const {
		t.Errorf("param 0 should default to const, got %+v", fn.Params[0])
	}
	if !fn.Params[1].QualifierExplicit || fn.Params[1].Qualifier != Mut {
		t.Errorf("param 1 should be explicit mut, got %+v", fn.Params[1])
	}
	if fn.ReturnType == nil {
		t.Fatalf("expected an explicit return type")
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 body stmt, got %d", len(fn.Body.Stmts))
	}
}

func TestParseIfElseIf(t *testing.T) {
	unit := mustParse(t, `
		fn f() { if (1) { print(1); } else if (2) { print(2); } else { print(3); } }
	`)
	fn := unit.Stmts[0].(*FuncDecl)
	ifStmt := fn.Body.Stmts[0].(*IfStmt)
	elseIf, ok := ifStmt.ElseBody.(*IfStmt)
	if !ok {
		t.Fatalf("expected else-if chaining, got %T", ifStmt.ElseBody)
	}
	if _, ok := elseIf.ElseBody.(*BlockStmt); !ok {
		t.Fatalf("expected a final else block, got %T", elseIf.ElseBody)
	}
}

func TestParseForLoop(t *testing.T) {
	unit := mustParse(t, `fn f() { for (let i = 0; i < 10; i = i + 1) { print(i); } }`)
	fn := unit.Stmts[0].(*FuncDecl)
	forStmt, ok := fn.Body.Stmts[0].(*ForStmt)
	if !ok {
		t.Fatalf("got %T, want *ForStmt", fn.Body.Stmts[0])
	}
	if _, ok := forStmt.Init.(*LetStmt); !ok {
		t.Errorf("Init: got %T, want *LetStmt", forStmt.Init)
	}
	if forStmt.Cond == nil {
		t.Errorf("expected a condition")
	}
	if _, ok := forStmt.Step.(*AssignStmt); !ok {
		t.Errorf("Step: got %T, want *AssignStmt", forStmt.Step)
	}
}

func TestParseExternAndIndex(t *testing.T) {
	unit := mustParse(t, `extern count; print(count[1]);`)
	if len(unit.Stmts) != 2 {
		t.Fatalf("got %d stmts, want 2", len(unit.Stmts))
	}
	ext, ok := unit.Stmts[0].(*ExternStmt)
	if !ok || ext.Name != "count" {
		t.Fatalf("got %+v, want extern count", unit.Stmts[0])
	}
	printStmt := unit.Stmts[1].(*PrintStmt)
	if _, ok := printStmt.Value.(*Index); !ok {
		t.Fatalf("got %T, want *Index", printStmt.Value)
	}
}

func TestParsePointerAndAddressOf(t *testing.T) {
	unit := mustParse(t, `fn f() { let x = 1; let p = &x; print(*p); }`)
	fn := unit.Stmts[0].(*FuncDecl)
	letP := fn.Body.Stmts[1].(*LetStmt)
	if _, ok := letP.Init.(*Reference); !ok {
		t.Fatalf("got %T, want *Reference", letP.Init)
	}
	printStmt := fn.Body.Stmts[2].(*PrintStmt)
	if _, ok := printStmt.Value.(*PointerDeref); !ok {
		t.Fatalf("got %T, want *PointerDeref", printStmt.Value)
	}
}

func TestParseErrorUnexpectedToken(t *testing.T) {
	tokens, err := Lex(`let x = ;`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if _, err := Parse(tokens, `let x = ;`); err == nil {
		t.Fatalf("expected a parse error")
	}
}
