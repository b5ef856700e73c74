package compiler

// CodeGen walks an already-analysed SourceUnit and emits bytecode via a
// Builder. It opens its own ScopeTracker over the Analyser's ScopeArena and
// replays the exact same Enter-call shape the analyser used (as Descend
// calls), so every Lookup it performs lands on the symbol the analyser
// resolved for that same AST node (§9).
type CodeGen struct {
	b       *Builder
	tracker *ScopeTracker

	funcLabel map[*FuncDecl]label
	stringLit map[string]int // literal text -> user-space base offset, de-duplicated

	returnsValue bool // does the function currently being generated return a value

	// genErr latches the first generation-time error (i128/f128 emitted as
	// an actual value, §4.4's Open Question on wide types); typecheck
	// accepts these kinds, so the failure surfaces here instead.
	genErr *CompileError
}

func (cg *CodeGen) requireEmittable(t *DataType, at Span) {
	if cg.genErr != nil || t == nil {
		return
	}
	if !t.Kind.emittable() {
		cg.genErr = newErr(KindGeneration, at, "type %s is not representable by the target precision", t)
	}
}

// Generate produces the finished Program for prog, whose scopes were
// already resolved by an Analyser sharing arena.
func Generate(prog *SourceUnit, arena *ScopeArena, precision Precision) (*Program, *CompileError) {
	cg := &CodeGen{
		b:         NewBuilder(precision),
		tracker:   NewScopeTracker(arena),
		funcLabel: map[*FuncDecl]label{},
		stringLit: map[string]int{},
	}
	for _, stmt := range prog.Stmts {
		if fn, ok := stmt.(*FuncDecl); ok {
			cg.funcLabel[fn] = cg.b.NewLabel()
		}
	}

	var funcs []*FuncDecl
	for _, stmt := range prog.Stmts {
		switch s := stmt.(type) {
		case *FuncDecl:
			funcs = append(funcs, s)
		case *ExternStmt:
			sym, _ := cg.tracker.Lookup(s.Name)
			cg.b.DeclareEnvVar(s.Name, sym.HostIndex)
		case *LetStmt:
			if err := cg.genGlobalLet(s); err != nil {
				return nil, err
			}
		case *PrintStmt:
			cg.genPrint(s)
		case *NakedCallStmt:
			cg.genNakedCall(s)
		case *AssignStmt:
			if err := cg.genAssign(s); err != nil {
				return nil, err
			}
		default:
			return nil, newErr(KindGeneration, stmt.Source(), "unsupported top-level statement")
		}
	}
	cg.b.Emit(OpHLT, 0)

	for _, fn := range funcs {
		if err := cg.genFuncBody(fn); err != nil {
			return nil, err
		}
	}
	if cg.genErr != nil {
		return nil, cg.genErr
	}

	prog2, err := cg.b.Finalize()
	if err != nil {
		return nil, newErr(KindGeneration, Span{}, "%v", err)
	}
	depth, derr := estimateStackDepth(prog2.Instructions)
	if derr != nil {
		return nil, derr
	}
	prog2.RecommendedStackDepth = depth
	return prog2, nil
}

func (cg *CodeGen) genGlobalLet(s *LetStmt) *CompileError {
	sym, _ := cg.tracker.Lookup(s.Name)
	if s.Init != nil {
		if vs, ok := foldConstant(s.Init); ok && sym.Type.Kind != KindPointer {
			base := cg.b.ReserveConstArray(vs)
			_ = base // offsets line up with sym.UserSpaceOffset by construction (same sequential order)
			return nil
		}
	}
	words := wordsOf(sym.Type)
	cg.b.ReserveGlobal(words)
	if s.Init != nil {
		cg.genExpr(s.Init)
		cg.b.Emit(OpSTORE_GLOBAL, sym.UserSpaceOffset)
	}
	return nil
}

func (cg *CodeGen) genFuncBody(fn *FuncDecl) *CompileError {
	tracker, _ := cg.tracker.LookupFunction(fn.Name)
	var impl *FunctionImpl
	for _, cand := range tracker.Impls {
		if cand.Decl == fn {
			impl = cand
			break
		}
	}

	cg.b.PlaceLabel(cg.funcLabel[fn])
	cg.b.Emit(OpFRAME, impl.FrameSize)
	cg.tracker.Descend()
	defer cg.tracker.Exit()

	prevReturns := cg.returnsValue
	cg.returnsValue = impl.Signature.Return.Kind != KindNone
	defer func() { cg.returnsValue = prevReturns }()

	if err := cg.genBlockIn(fn.Body); err != nil {
		return err
	}
	// A none-returning function falling off the end of its body needs an
	// explicit RET; one with a declared return type must have returned
	// through an explicit ReturnStmt already (enforced structurally is
	// out of scope here — the analyser only checks the types of returns
	// it sees, so a missing final return in a non-void function is a
	// generation-time safety net rather than a parse-time guarantee).
	cg.b.Emit(OpRET, 0)
	return nil
}

func (cg *CodeGen) genBlockIn(b *BlockStmt) *CompileError {
	for _, stmt := range b.Stmts {
		if err := cg.genStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genBlock(b *BlockStmt) *CompileError {
	cg.tracker.Descend()
	defer cg.tracker.Exit()
	return cg.genBlockIn(b)
}

func (cg *CodeGen) genStmt(stmt Stmt) *CompileError {
	switch s := stmt.(type) {
	case *LetStmt:
		return cg.genLocalLet(s)
	case *AssignStmt:
		return cg.genAssign(s)
	case *PrintStmt:
		cg.genPrint(s)
		return nil
	case *ReturnStmt:
		return cg.genReturn(s)
	case *NakedCallStmt:
		cg.genNakedCall(s)
		return nil
	case *BlockStmt:
		return cg.genBlock(s)
	case *IfStmt:
		return cg.genIf(s)
	case *WhileStmt:
		return cg.genWhile(s)
	case *ForStmt:
		return cg.genFor(s)
	default:
		return newErr(KindGeneration, stmt.Source(), "unsupported statement")
	}
}

func (cg *CodeGen) genLocalLet(s *LetStmt) *CompileError {
	sym, _ := cg.tracker.Lookup(s.Name)
	if s.Init != nil {
		cg.genExpr(s.Init)
	} else {
		cg.b.Emit(OpPUSH, cg.b.InternValue(0))
	}
	cg.b.Emit(OpSTORE_LOCAL, sym.FrameOffset)
	return nil
}

// genPrint emits PRINT with its operand flagging whether the popped value is
// a scalar (0) or a pointer into a packed string (1). `print` accepts any
// scalar and "formats per VM contract" (§4.4); the production runtime is
// maintained elsewhere and free to read this flag however it likes, but
// pkg/vm's test-double print sink needs it to tell a string pointer from an
// ordinary number (S6).
func (cg *CodeGen) genPrint(s *PrintStmt) {
	cg.genExpr(s.Value)
	flag := 0
	if s.Value.Type().Kind == KindString {
		flag = 1
	}
	cg.b.Emit(OpPRINT, flag)
}

func (cg *CodeGen) genNakedCall(s *NakedCallStmt) {
	cg.genExpr(s.Call)
	if s.Call.Type().Kind != KindNone {
		cg.b.Emit(OpPOP, 0)
	}
}

func (cg *CodeGen) genReturn(s *ReturnStmt) *CompileError {
	if s.Value != nil {
		cg.genExpr(s.Value)
	}
	idx := cg.b.Emit(OpRET, 0)
	cg.b.instrs[idx].ReturnsValue = s.Value != nil
	return nil
}

func (cg *CodeGen) genIf(s *IfStmt) *CompileError {
	cg.genExpr(s.Cond)
	elseLbl := cg.b.NewLabel()
	cg.b.EmitJump(OpJZ, elseLbl)
	if err := cg.genBlock(s.Then); err != nil {
		return err
	}
	if s.ElseBody == nil {
		cg.b.PlaceLabel(elseLbl)
		return nil
	}
	endLbl := cg.b.NewLabel()
	cg.b.EmitJump(OpJMP, endLbl)
	cg.b.PlaceLabel(elseLbl)
	if err := cg.genStmt(s.ElseBody); err != nil {
		return err
	}
	cg.b.PlaceLabel(endLbl)
	return nil
}

func (cg *CodeGen) genWhile(s *WhileStmt) *CompileError {
	top := cg.b.NewLabel()
	end := cg.b.NewLabel()
	cg.b.PlaceLabel(top)
	cg.genExpr(s.Cond)
	cg.b.EmitJump(OpJZ, end)
	if err := cg.genBlock(s.Body); err != nil {
		return err
	}
	cg.b.EmitJump(OpJMP, top)
	cg.b.PlaceLabel(end)
	return nil
}

func (cg *CodeGen) genFor(s *ForStmt) *CompileError {
	cg.tracker.Descend()
	defer cg.tracker.Exit()

	if s.Init != nil {
		if err := cg.genStmt(s.Init); err != nil {
			return err
		}
	}
	top := cg.b.NewLabel()
	end := cg.b.NewLabel()
	cg.b.PlaceLabel(top)
	if s.Cond != nil {
		cg.genExpr(s.Cond)
		cg.b.EmitJump(OpJZ, end)
	}
	if err := cg.genBlockIn(s.Body); err != nil {
		return err
	}
	if s.Step != nil {
		if err := cg.genStmt(s.Step); err != nil {
			return err
		}
	}
	cg.b.EmitJump(OpJMP, top)
	cg.b.PlaceLabel(end)
	return nil
}

func (cg *CodeGen) genAssign(s *AssignStmt) *CompileError {
	switch t := s.Target.(type) {
	case *Identifier:
		sym, _ := cg.tracker.Lookup(t.Name)
		cg.genExpr(s.Value)
		cg.emitStoreSymbol(sym)
	default:
		cg.genExpr(s.Value)
		cg.genAddress(s.Target)
		cg.b.Emit(OpSTORE_IND, 0)
	}
	return nil
}

func (cg *CodeGen) emitStoreSymbol(sym *Symbol) {
	switch sym.Storage {
	case StorageGlobal:
		cg.b.Emit(OpSTORE_GLOBAL, sym.UserSpaceOffset)
	default:
		cg.b.Emit(OpSTORE_LOCAL, sym.FrameOffset)
	}
}

//  Expressions

func (cg *CodeGen) genExpr(e Expr) {
	cg.requireEmittable(e.Type(), e.Source())
	switch x := e.(type) {
	case *IntLiteral:
		cg.b.Emit(OpPUSH, cg.b.InternValue(float64(x.Value)))
	case *DecimalLiteral:
		cg.b.Emit(OpPUSH, cg.b.InternValue(x.Value))
	case *BoolLiteral:
		v := 0.0
		if x.Value {
			v = 1
		}
		cg.b.Emit(OpPUSH, cg.b.InternValue(v))
	case *StringLiteral:
		base := cg.internString(x.Value)
		cg.b.Emit(OpLDCUPTR, base)
	case *Identifier:
		sym, _ := cg.tracker.Lookup(x.Name)
		cg.genLoadSymbolValue(sym)
	case *Reference:
		sym, _ := cg.tracker.Lookup(x.Target.Name)
		cg.genAddressOfSymbol(sym)
	case *ArrayLiteral:
		cg.requireEmittable(x.Type().Elem, x.Source())
		vs, _ := foldConstant(x)
		base := cg.b.ReserveConstArray(vs)
		cg.b.Emit(OpLDCUPTR, base)
	case *Index:
		if sym := cg.envVarIdentifier(x.Base); sym != nil {
			// An indexed environmentvariable use (§9) reads straight out
			// of host memory by host index; there is no user-space
			// address to compute.
			cg.genExpr(x.Index)
			cg.b.Emit(OpLOAD_ENV_IND, sym.HostIndex)
			break
		}
		cg.genAddress(x)
		cg.b.Emit(OpLOAD_IND, 0)
	case *PointerDeref:
		cg.genAddress(x)
		cg.b.Emit(OpLOAD_IND, 0)
	case *Unary:
		cg.genExpr(x.Operand)
		if x.Op == NOT {
			cg.b.EmitOp(OperatorNot)
		} else {
			cg.b.EmitOp(OperatorNeg)
		}
	case *Binary:
		cg.genExpr(x.Left)
		cg.genExpr(x.Right)
		cg.b.EmitOp(binaryOperatorFor[x.Op])
	case *Logical:
		cg.genLogical(x)
	case *Ternary:
		cg.genTernary(x)
	case *Call:
		cg.genCall(x)
	}
}

// envVarIdentifier returns the env-var symbol e resolves to when e is a bare
// identifier bound to an extern declaration, or nil otherwise. Indexed and
// referenced environmentvariable uses (§9) take a different code path than
// ordinary array/pointer bases because there is no user-space address
// backing an extern: the host exposes it directly by host index.
func (cg *CodeGen) envVarIdentifier(e Expr) *Symbol {
	id, ok := e.(*Identifier)
	if !ok {
		return nil
	}
	sym, ok := cg.tracker.Lookup(id.Name)
	if !ok || sym.Storage != StorageEnvVar {
		return nil
	}
	return sym
}

// genAddress pushes the runtime address e refers to, for use as an
// assignment target or as the operand of LOAD_IND.
func (cg *CodeGen) genAddress(e Expr) {
	switch x := e.(type) {
	case *Identifier:
		sym, _ := cg.tracker.Lookup(x.Name)
		cg.genAddressOfSymbol(sym)
	case *Index:
		cg.genExpr(x.Base) // decays arrays to a pointer, passes pointers through
		cg.genExpr(x.Index)
		elemWords := wordsOf(*x.Base.Type().Elem)
		cg.b.Emit(OpPUSH, cg.b.InternValue(float64(elemWords)))
		cg.b.EmitOp(OperatorMul)
		cg.b.EmitOp(OperatorAdd)
	case *PointerDeref:
		cg.genExpr(x.Operand)
	}
}

func (cg *CodeGen) genLoadSymbolValue(sym *Symbol) {
	decay := sym.Type.Kind == KindArray
	switch sym.Storage {
	case StorageGlobal:
		op := OpLOAD_GLOBAL
		if decay {
			op = OpLOAD_GLOBAL_PTR
		}
		if sym.Qualifier == Const {
			if decay {
				op = OpLDCUPTR
			} else {
				op = OpLDCUX
			}
		}
		cg.b.Emit(op, sym.UserSpaceOffset)
	case StorageLocal, StorageParam:
		op := OpLOAD_LOCAL
		if decay {
			op = OpLOAD_LOCAL_PTR
		}
		cg.b.Emit(op, sym.FrameOffset)
	case StorageEnvVar:
		cg.b.Emit(OpLOAD_ENV, sym.HostIndex)
	}
}

func (cg *CodeGen) genAddressOfSymbol(sym *Symbol) {
	switch sym.Storage {
	case StorageGlobal:
		op := OpLOAD_GLOBAL_PTR
		if sym.Qualifier == Const {
			op = OpLDCUPTR
		}
		cg.b.Emit(op, sym.UserSpaceOffset)
	case StorageLocal, StorageParam:
		cg.b.Emit(OpLOAD_LOCAL_PTR, sym.FrameOffset)
	case StorageEnvVar:
		cg.b.Emit(OpLOAD_ENV_PTR, sym.HostIndex)
	}
}

func (cg *CodeGen) genLogical(x *Logical) {
	falseLbl := cg.b.NewLabel()
	endLbl := cg.b.NewLabel()
	cg.genExpr(x.Left)
	if x.Op == AND_AND {
		// Left false -> whole thing false without evaluating Right.
		cg.b.EmitJump(OpJZ, falseLbl)
		cg.genExpr(x.Right)
		cg.b.EmitJump(OpJZ, falseLbl)
		cg.b.Emit(OpPUSH, cg.b.InternValue(1))
		cg.b.EmitJump(OpJMP, endLbl)
		cg.b.PlaceLabel(falseLbl)
		cg.b.Emit(OpPUSH, cg.b.InternValue(0))
		cg.b.PlaceLabel(endLbl)
		return
	}
	// OR_OR : Left true -> whole thing true without evaluating Right.
	checkRight := cg.b.NewLabel()
	trueLbl := cg.b.NewLabel()
	cg.b.EmitJump(OpJZ, checkRight)
	cg.b.EmitJump(OpJMP, trueLbl)
	cg.b.PlaceLabel(checkRight)
	cg.genExpr(x.Right)
	cg.b.EmitJump(OpJZ, falseLbl)
	cg.b.PlaceLabel(trueLbl)
	cg.b.Emit(OpPUSH, cg.b.InternValue(1))
	cg.b.EmitJump(OpJMP, endLbl)
	cg.b.PlaceLabel(falseLbl)
	cg.b.Emit(OpPUSH, cg.b.InternValue(0))
	cg.b.PlaceLabel(endLbl)
}

func (cg *CodeGen) genTernary(x *Ternary) {
	elseLbl := cg.b.NewLabel()
	endLbl := cg.b.NewLabel()
	cg.genExpr(x.Cond)
	cg.b.EmitJump(OpJZ, elseLbl)
	cg.genExpr(x.Then)
	cg.b.EmitJump(OpJMP, endLbl)
	cg.b.PlaceLabel(elseLbl)
	cg.genExpr(x.Else)
	cg.b.PlaceLabel(endLbl)
}

func (cg *CodeGen) genCall(x *Call) {
	for _, arg := range x.Args {
		cg.genExpr(arg)
	}
	lbl := cg.funcLabel[x.Resolved.Decl]
	cg.b.EmitCall(lbl, len(x.Args), x.Resolved.Signature.Return.Kind != KindNone)
}

// internString reserves x's packed representation in user space exactly
// once per distinct literal text.
func (cg *CodeGen) internString(s string) int {
	if base, ok := cg.stringLit[s]; ok {
		return base
	}
	vals := packString(s, cg.b.precision)
	base := cg.b.ReserveConstArray(vals)
	cg.stringLit[s] = base
	return base
}
