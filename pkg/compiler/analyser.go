package compiler

import (
	"fmt"
	"strings"
)

// Analyser performs the two-pass semantic check of §4.4: a declaration
// pass that pre-registers every function's overload signature (so calls
// may forward-reference or recurse freely), followed by a body pass that
// walks every global statement and function body in source order, typing
// every expression, enforcing qualifier soundness (I-no-write-to-const),
// and resolving each call to exactly one overload.
//
// The Analyser owns the ScopeArena for the whole compile; the generator
// opens its own ScopeTracker over the same arena afterwards so both stages
// see identical scope structure (§9).
type Analyser struct {
	Arena   *ScopeArena
	tracker *ScopeTracker

	precision   Precision
	envAlloc    *envVarAllocator
	envBindings map[string]int // caller-supplied identifier -> host index (§6 request.env_vars)

	globalCursor int // next free user-space word offset for globals/consts

	frameCursor *int // per-function local/param slot counter, nil at top level
	funcReturn  *DataType
}

// NewAnalyser constructs an Analyser. envBindings pins specific externs to
// host indices the caller already decided (§6's env_vars request field);
// an extern not named there gets the next unused index in declaration
// order (§4.4, §6).
func NewAnalyser(precision Precision, envBindings map[string]int) *Analyser {
	arena := NewScopeArena()
	return &Analyser{
		Arena:       arena,
		tracker:     NewScopeTracker(arena),
		precision:   precision,
		envAlloc:    newEnvVarAllocator(),
		envBindings: envBindings,
	}
}

// Analyse runs both passes over prog, mutating every Expr's resolved type
// in place and returning the first error encountered, per §7 (no
// recovery).
func (a *Analyser) Analyse(prog *SourceUnit) *CompileError {
	// Pass 1: pre-register every function's signature.
	for _, stmt := range prog.Stmts {
		fn, ok := stmt.(*FuncDecl)
		if !ok {
			continue
		}
		if err := a.registerFunction(fn); err != nil {
			return err
		}
	}

	// Pass 2: globals/externs in order, function bodies.
	for _, stmt := range prog.Stmts {
		if err := a.analyseGlobalStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyser) registerFunction(fn *FuncDecl) *CompileError {
	sig := FunctionSignature{Return: prim(KindNone, Const)}
	if fn.ReturnType != nil {
		rt, err := a.resolveTypeExpr(fn.ReturnType)
		if err != nil {
			return err
		}
		sig.Return = rt
	}
	for _, p := range fn.Params {
		pt, err := a.resolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		q := Const
		if p.QualifierExplicit {
			q = p.Qualifier
		}
		sig.Params = append(sig.Params, ParamSig{Type: pt, Qualifier: q})
	}

	if existing, ok := a.tracker.LookupFunction(fn.Name); ok {
		for _, impl := range existing.Impls {
			if sameSignatureKey(impl.Signature, sig) {
				return newErr(KindOverload, fn.Source(), "function %q redeclares an overload with the same parameter signature", fn.Name)
			}
		}
	}
	a.tracker.DeclareFunction(fn.Name, &FunctionImpl{Signature: sig, Decl: fn})
	return nil
}

func sameSignatureKey(a, b FunctionSignature) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !a.Params[i].Type.Equal(b.Params[i].Type) || a.Params[i].Qualifier != b.Params[i].Qualifier {
			return false
		}
	}
	return true
}

func (a *Analyser) resolveTypeExpr(t *TypeExpr) (DataType, *CompileError) {
	if t.Pointer != nil {
		elem, err := a.resolveTypeExpr(t.Pointer)
		if err != nil {
			return DataType{}, err
		}
		return ptrTo(elem, Const), nil
	}
	if t.Array != nil {
		elem, err := a.resolveTypeExpr(t.Array.Elem)
		if err != nil {
			return DataType{}, err
		}
		if err := a.analyseExpr(t.Array.Len); err != nil {
			return DataType{}, err
		}
		lit, ok := t.Array.Len.(*IntLiteral)
		if !ok || lit.Value < 0 {
			return DataType{}, newErr(KindType, t.Array.Len.Source(), "array length must be a non-negative integer constant")
		}
		return arrayOf(elem, int(lit.Value), Const), nil
	}
	k, ok := primKindOf(t.Prim)
	if !ok {
		return DataType{}, newErr(KindType, t.Span, "not a type")
	}
	return prim(k, Const), nil
}

func primKindOf(tt TokenType) (Kind, bool) {
	switch tt {
	case TY_I8:
		return KindI8, true
	case TY_I16:
		return KindI16, true
	case TY_I32:
		return KindI32, true
	case TY_I64:
		return KindI64, true
	case TY_I128:
		return KindI128, true
	case TY_F8:
		return KindF8, true
	case TY_F16:
		return KindF16, true
	case TY_F32:
		return KindF32, true
	case TY_F64:
		return KindF64, true
	case TY_F128:
		return KindF128, true
	case TY_BOOL:
		return KindBool, true
	case TY_NONE:
		return KindNone, true
	}
	return 0, false
}

//  Global / extern pass 2

func (a *Analyser) analyseGlobalStmt(stmt Stmt) *CompileError {
	switch s := stmt.(type) {
	case *FuncDecl:
		return a.analyseFuncBody(s)
	case *ExternStmt:
		explicit := s.HostIndex
		if explicit == nil {
			if idx, ok := a.envBindings[s.Name]; ok {
				explicit = &idx
			}
		}
		idx, err := a.envAlloc.allocate(explicit)
		if err != nil {
			err.Offset, err.Length = s.Source().Offset, s.Source().Length
			return err
		}
		sym := &Symbol{Name: s.Name, Type: prim(KindEnvVar, Const), Qualifier: Const, Storage: StorageEnvVar, HostIndex: idx}
		if !a.tracker.Declare(sym) {
			return newErr(KindResolution, s.Source(), "%q is already declared in this scope", s.Name)
		}
		return nil
	case *LetStmt:
		return a.analyseGlobalLet(s)
	case *PrintStmt:
		return a.analyseExpr(s.Value)
	case *NakedCallStmt:
		return a.analyseExpr(s.Call)
	case *AssignStmt:
		return a.analyseAssign(s)
	default:
		return newErr(KindType, stmt.Source(), "only let, extern, fn, print, assignment, and call statements are allowed at the top level")
	}
}

func (a *Analyser) analyseGlobalLet(s *LetStmt) *CompileError {
	typ, err := a.analyseLetCommon(s)
	if err != nil {
		return err
	}
	words := wordsOf(typ)
	sym := &Symbol{Name: s.Name, Type: typ, Qualifier: typ.Qualifier, Storage: StorageGlobal, UserSpaceOffset: a.globalCursor}
	a.globalCursor += words
	if !a.tracker.Declare(sym) {
		return newErr(KindResolution, s.Source(), "%q is already declared in this scope", s.Name)
	}
	return nil
}

// wordsOf is the number of float64 user-space/frame slots a type occupies
// in this generator's flat memory model (§3/§6 addendum).
func wordsOf(t DataType) int {
	switch t.Kind {
	case KindArray:
		return t.Len * wordsOf(*t.Elem)
	default:
		return 1
	}
}

//  Function bodies

func (a *Analyser) analyseFuncBody(fn *FuncDecl) *CompileError {
	tracker, _ := a.tracker.LookupFunction(fn.Name)
	var impl *FunctionImpl
	for _, cand := range tracker.Impls {
		if cand.Decl == fn {
			impl = cand
			break
		}
	}
	ret := impl.Signature.Return

	a.tracker.Enter()
	defer a.tracker.Exit()

	var frame int
	prevFrame, prevReturn := a.frameCursor, a.funcReturn
	a.frameCursor, a.funcReturn = &frame, &ret
	defer func() { a.frameCursor, a.funcReturn = prevFrame, prevReturn }()

	for i, p := range fn.Params {
		pt, err := a.resolveTypeExpr(p.Type)
		if err != nil {
			return err
		}
		q := Const
		if p.QualifierExplicit {
			q = p.Qualifier
		}
		sym := &Symbol{Name: p.Name, Type: DataType{Kind: pt.Kind, Elem: pt.Elem, Len: pt.Len, Qualifier: q}, Qualifier: q, Storage: StorageParam, FrameOffset: i}
		frame++
		if !a.tracker.Declare(sym) {
			return newErr(KindResolution, p.Span, "parameter %q is already declared", p.Name)
		}
	}

	if err := a.analyseBlockIn(fn.Body); err != nil {
		return err
	}
	impl.FrameSize = frame
	return nil
}

// analyseBlockIn analyses stmts without opening a new scope (used when the
// caller already opened one, e.g. a function's parameter scope sharing the
// body block).
func (a *Analyser) analyseBlockIn(b *BlockStmt) *CompileError {
	for _, stmt := range b.Stmts {
		if err := a.analyseStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyser) analyseBlock(b *BlockStmt) *CompileError {
	a.tracker.Enter()
	defer a.tracker.Exit()
	return a.analyseBlockIn(b)
}

func (a *Analyser) analyseStmt(stmt Stmt) *CompileError {
	switch s := stmt.(type) {
	case *LetStmt:
		return a.analyseLocalLet(s)
	case *AssignStmt:
		return a.analyseAssign(s)
	case *PrintStmt:
		return a.analyseExpr(s.Value)
	case *ReturnStmt:
		return a.analyseReturn(s)
	case *NakedCallStmt:
		return a.analyseExpr(s.Call)
	case *BlockStmt:
		return a.analyseBlock(s)
	case *IfStmt:
		return a.analyseIf(s)
	case *WhileStmt:
		return a.analyseWhile(s)
	case *ForStmt:
		return a.analyseFor(s)
	case *ExternStmt:
		return newErr(KindResolution, s.Source(), "extern declarations are only allowed at the top level")
	default:
		return newErr(KindType, stmt.Source(), "statement not allowed here")
	}
}

func (a *Analyser) analyseLetCommon(s *LetStmt) (DataType, *CompileError) {
	var declared *DataType
	if s.DeclaredType != nil {
		dt, err := a.resolveTypeExpr(s.DeclaredType)
		if err != nil {
			return DataType{}, err
		}
		declared = &dt
	}
	if s.Init != nil {
		if err := a.analyseExpr(s.Init); err != nil {
			return DataType{}, err
		}
	}
	q := Const
	if s.QualifierExplicit {
		q = s.Qualifier
	}
	switch {
	case declared != nil && s.Init != nil:
		if !assignable(*declared, *s.Init.Type()) {
			return DataType{}, newErr(KindType, s.Source(), "cannot initialise %s with a value of type %s", declared, s.Init.Type())
		}
		return withQualifier(*declared, q), nil
	case declared != nil:
		return withQualifier(*declared, q), nil
	case s.Init != nil:
		return withQualifier(*s.Init.Type(), q), nil
	default:
		return DataType{}, newErr(KindType, s.Source(), "let %q needs a declared type or an initialiser", s.Name)
	}
}

func withQualifier(t DataType, q Qualifier) DataType {
	t.Qualifier = q
	return t
}

func (a *Analyser) analyseLocalLet(s *LetStmt) *CompileError {
	typ, err := a.analyseLetCommon(s)
	if err != nil {
		return err
	}
	slot := *a.frameCursor
	*a.frameCursor++
	sym := &Symbol{Name: s.Name, Type: typ, Qualifier: typ.Qualifier, Storage: StorageLocal, FrameOffset: slot}
	if !a.tracker.Declare(sym) {
		return newErr(KindResolution, s.Source(), "%q is already declared in this scope", s.Name)
	}
	return nil
}

func (a *Analyser) analyseAssign(s *AssignStmt) *CompileError {
	if err := a.analyseExpr(s.Target); err != nil {
		return err
	}
	if err := a.analyseExpr(s.Value); err != nil {
		return err
	}
	switch s.Target.(type) {
	case *Identifier, *Index, *PointerDeref:
	default:
		return newErr(KindType, s.Target.Source(), "left side of an assignment must be a variable, index, or dereference")
	}
	if s.Target.Type().Qualifier != Mut {
		return newErr(KindQualifier, s.Source(), "cannot assign to a const value")
	}
	if !assignable(*s.Target.Type(), *s.Value.Type()) {
		return newErr(KindType, s.Source(), "cannot assign a value of type %s to %s", s.Value.Type(), s.Target.Type())
	}
	return nil
}

func (a *Analyser) analyseReturn(s *ReturnStmt) *CompileError {
	if s.Value == nil {
		if a.funcReturn.Kind != KindNone {
			return newErr(KindType, s.Source(), "missing return value for a function returning %s", a.funcReturn)
		}
		return nil
	}
	if err := a.analyseExpr(s.Value); err != nil {
		return err
	}
	if a.funcReturn.Kind == KindNone {
		return newErr(KindType, s.Source(), "function returning none cannot return a value")
	}
	if !assignable(*a.funcReturn, *s.Value.Type()) {
		return newErr(KindType, s.Source(), "cannot return a value of type %s from a function returning %s", s.Value.Type(), a.funcReturn)
	}
	return nil
}

func (a *Analyser) analyseIf(s *IfStmt) *CompileError {
	if err := a.analyseExpr(s.Cond); err != nil {
		return err
	}
	if s.Cond.Type().Kind != KindBool {
		return newErr(KindType, s.Cond.Source(), "if condition must be bool")
	}
	if err := a.analyseBlock(s.Then); err != nil {
		return err
	}
	if s.ElseBody != nil {
		return a.analyseStmt(s.ElseBody)
	}
	return nil
}

func (a *Analyser) analyseWhile(s *WhileStmt) *CompileError {
	if err := a.analyseExpr(s.Cond); err != nil {
		return err
	}
	if s.Cond.Type().Kind != KindBool {
		return newErr(KindType, s.Cond.Source(), "while condition must be bool")
	}
	return a.analyseBlock(s.Body)
}

func (a *Analyser) analyseFor(s *ForStmt) *CompileError {
	a.tracker.Enter()
	defer a.tracker.Exit()
	if s.Init != nil {
		if err := a.analyseStmt(s.Init); err != nil {
			return err
		}
	}
	if s.Cond != nil {
		if err := a.analyseExpr(s.Cond); err != nil {
			return err
		}
		if s.Cond.Type().Kind != KindBool {
			return newErr(KindType, s.Cond.Source(), "for condition must be bool")
		}
	}
	if s.Step != nil {
		if err := a.analyseStmt(s.Step); err != nil {
			return err
		}
	}
	return a.analyseBlockIn(s.Body)
}

//  Expressions

func (a *Analyser) analyseExpr(e Expr) *CompileError {
	switch x := e.(type) {
	case *IntLiteral:
		x.setType(prim(narrowestIntFor(x.Value), Const))
	case *DecimalLiteral:
		x.setType(prim(a.precision.floatKind(), Const))
	case *BoolLiteral:
		x.setType(prim(KindBool, Const))
	case *StringLiteral:
		x.setType(DataType{Kind: KindString, Qualifier: Const})
	case *Identifier:
		return a.analyseIdentifier(x)
	case *Reference:
		return a.analyseReference(x)
	case *ArrayLiteral:
		return a.analyseArrayLiteral(x)
	case *Index:
		return a.analyseIndex(x)
	case *PointerDeref:
		return a.analysePointerDeref(x)
	case *Unary:
		return a.analyseUnary(x)
	case *Binary:
		return a.analyseBinary(x)
	case *Logical:
		return a.analyseLogical(x)
	case *Ternary:
		return a.analyseTernary(x)
	case *Call:
		return a.analyseCall(x)
	default:
		return newErr(KindType, e.Source(), "unsupported expression")
	}
	return nil
}

func (a *Analyser) analyseIdentifier(x *Identifier) *CompileError {
	sym, ok := a.tracker.Lookup(x.Name)
	if !ok {
		return newErr(KindResolution, x.Source(), "undefined name %q", x.Name)
	}
	x.setType(sym.Type)
	return nil
}

func (a *Analyser) analyseReference(x *Reference) *CompileError {
	sym, ok := a.tracker.Lookup(x.Target.Name)
	if !ok {
		return newErr(KindResolution, x.Source(), "undefined name %q", x.Target.Name)
	}
	x.Target.setType(sym.Type)
	x.setType(ptrTo(sym.Type, Const))
	return nil
}

func (a *Analyser) analyseArrayLiteral(x *ArrayLiteral) *CompileError {
	if len(x.Elements) == 0 {
		return newErr(KindType, x.Source(), "array literal cannot be empty")
	}
	for _, el := range x.Elements {
		if err := a.analyseExpr(el); err != nil {
			return err
		}
	}
	elemType := *x.Elements[0].Type()
	for _, el := range x.Elements[1:] {
		if !elemType.Equal(*el.Type()) {
			if common, ok := commonNumeric(elemType, *el.Type()); ok {
				elemType = common
				continue
			}
			return newErr(KindType, el.Source(), "array elements must share a type")
		}
	}
	if _, ok := foldConstant(x); !ok {
		return newErr(KindType, x.Source(), "array literal elements must be compile-time constants")
	}
	x.setType(arrayOf(elemType, len(x.Elements), Const))
	return nil
}

func (a *Analyser) analyseIndex(x *Index) *CompileError {
	if err := a.analyseExpr(x.Base); err != nil {
		return err
	}
	if err := a.analyseExpr(x.Index); err != nil {
		return err
	}
	if !x.Index.Type().Kind.isInteger() {
		return newErr(KindType, x.Index.Source(), "array index must be an integer")
	}
	base := x.Base.Type()
	var elem DataType
	switch base.Kind {
	case KindArray, KindPointer:
		elem = *base.Elem
	case KindEnvVar:
		// An indexed environmentvariable use (§9): the host exposes an
		// array of cells through this extern; the element type is only
		// resolved at the generator's use site, so i64 stands in here.
		elem = prim(KindI64, base.Qualifier)
	default:
		return newErr(KindType, x.Base.Source(), "cannot index a value of type %s", base)
	}
	elem.Qualifier = base.Qualifier
	x.setType(elem)
	return nil
}

func (a *Analyser) analysePointerDeref(x *PointerDeref) *CompileError {
	if err := a.analyseExpr(x.Operand); err != nil {
		return err
	}
	t := x.Operand.Type()
	if t.Kind != KindPointer {
		return newErr(KindType, x.Operand.Source(), "cannot dereference a value of type %s", t)
	}
	x.setType(*t.Elem)
	return nil
}

func (a *Analyser) analyseUnary(x *Unary) *CompileError {
	if err := a.analyseExpr(x.Operand); err != nil {
		return err
	}
	t := x.Operand.Type()
	switch x.Op {
	case NOT:
		if t.Kind != KindBool {
			return newErr(KindType, x.Source(), "! requires a bool operand")
		}
		x.setType(prim(KindBool, Const))
	case MINUS:
		if !t.numericCapable() {
			return newErr(KindType, x.Source(), "unary - requires a numeric operand")
		}
		k := t.Kind
		if k == KindEnvVar {
			k = KindI64
		}
		x.setType(prim(k, Const))
	default:
		return newErr(KindType, x.Source(), "unsupported unary operator")
	}
	return nil
}

func (a *Analyser) analyseBinary(x *Binary) *CompileError {
	if err := a.analyseExpr(x.Left); err != nil {
		return err
	}
	if err := a.analyseExpr(x.Right); err != nil {
		return err
	}
	lt, rt := x.Left.Type(), x.Right.Type()
	switch x.Op {
	case PLUS, MINUS, STAR, SLASH, PERCENT, CARET, SHL, SHR:
		if (x.Op == SLASH || x.Op == PERCENT) && isLiteralZero(x.Right) {
			return newErr(KindType, x.Right.Source(), "division by a literal zero")
		}
		common, ok := commonNumeric(*lt, *rt)
		if !ok {
			return newErr(KindType, x.Source(), "%s requires numeric operands, got %s and %s", x.Op, lt, rt)
		}
		x.setType(prim(common.Kind, Const))
	case EQ, NEQ:
		if !lt.Equal(*rt) && !sameFamily(*lt, *rt) {
			return newErr(KindType, x.Source(), "cannot compare %s and %s", lt, rt)
		}
		x.setType(prim(KindBool, Const))
	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		if !sameFamily(*lt, *rt) {
			return newErr(KindType, x.Source(), "%s requires operands of the same numeric family, got %s and %s", x.Op, lt, rt)
		}
		x.setType(prim(KindBool, Const))
	default:
		return newErr(KindType, x.Source(), "unsupported binary operator")
	}
	return nil
}

// isLiteralZero reports whether e is a literal whose value is exactly zero,
// per §4.4's "division by a literal zero is rejected".
func isLiteralZero(e Expr) bool {
	switch x := e.(type) {
	case *IntLiteral:
		return x.Value == 0
	case *DecimalLiteral:
		return x.Value == 0
	}
	return false
}

func (a *Analyser) analyseLogical(x *Logical) *CompileError {
	if err := a.analyseExpr(x.Left); err != nil {
		return err
	}
	if err := a.analyseExpr(x.Right); err != nil {
		return err
	}
	if x.Left.Type().Kind != KindBool || x.Right.Type().Kind != KindBool {
		return newErr(KindType, x.Source(), "%s requires bool operands", x.Op)
	}
	x.setType(prim(KindBool, Const))
	return nil
}

func (a *Analyser) analyseTernary(x *Ternary) *CompileError {
	if err := a.analyseExpr(x.Cond); err != nil {
		return err
	}
	if x.Cond.Type().Kind != KindBool {
		return newErr(KindType, x.Cond.Source(), "ternary condition must be bool")
	}
	if err := a.analyseExpr(x.Then); err != nil {
		return err
	}
	if err := a.analyseExpr(x.Else); err != nil {
		return err
	}
	tt, et := x.Then.Type(), x.Else.Type()
	if tt.Equal(*et) {
		x.setType(*tt)
		return nil
	}
	if common, ok := commonNumeric(*tt, *et); ok {
		x.setType(common)
		return nil
	}
	return newErr(KindType, x.Source(), "ternary branches have incompatible types %s and %s", tt, et)
}

func (a *Analyser) analyseCall(x *Call) *CompileError {
	for _, arg := range x.Args {
		if err := a.analyseExpr(arg); err != nil {
			return err
		}
	}
	tracker, ok := a.tracker.LookupFunction(x.Name)
	if !ok {
		return newErr(KindResolution, x.Source(), "undefined function %q", x.Name)
	}
	var matches []*FunctionImpl
	for _, impl := range tracker.Impls {
		if len(impl.Signature.Params) != len(x.Args) {
			continue
		}
		ok := true
		for i, p := range impl.Signature.Params {
			at := x.Args[i].Type()
			if !assignable(p.Type, *at) || !qualifierAssignable(p.Qualifier, at.Qualifier) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, impl)
		}
	}
	switch len(matches) {
	case 0:
		return newErr(KindOverload, x.Source(), "no overload of %q matches the given arguments; candidates: %s", x.Name, signatureList(x.Name, tracker.Impls))
	case 1:
		x.setType(matches[0].Signature.Return)
		x.Resolved = matches[0]
		return nil
	default:
		// A strict match — every argument's exact type and qualifier, not
		// merely an assignable one — wins over the other candidates instead
		// of being reported as ambiguous (§4.4).
		var strict []*FunctionImpl
		for _, impl := range matches {
			isStrict := true
			for i, p := range impl.Signature.Params {
				at := x.Args[i].Type()
				if !p.Type.Equal(*at) || p.Qualifier != at.Qualifier {
					isStrict = false
					break
				}
			}
			if isStrict {
				strict = append(strict, impl)
			}
		}
		if len(strict) == 1 {
			x.setType(strict[0].Signature.Return)
			x.Resolved = strict[0]
			return nil
		}
		return newErr(KindOverload, x.Source(), "call to %q is ambiguous between %d overloads; candidates: %s", x.Name, len(matches), signatureList(x.Name, matches))
	}
}

// signatureList renders each candidate's signature as "name(type, type, ...)"
// for overload-resolution diagnostics (§4.4/§7).
func signatureList(name string, impls []*FunctionImpl) string {
	sigs := make([]string, len(impls))
	for i, impl := range impls {
		params := make([]string, len(impl.Signature.Params))
		for j, p := range impl.Signature.Params {
			params[j] = p.Type.String()
		}
		sigs[i] = fmt.Sprintf("%s(%s)", name, strings.Join(params, ", "))
	}
	return strings.Join(sigs, ", ")
}

// qualifierAssignable reports whether an argument of qualifier argQ may be
// passed to a parameter requiring paramQ: const parameters accept anything,
// mut parameters require a mut argument (§4.4).
func qualifierAssignable(paramQ, argQ Qualifier) bool {
	if paramQ == Const {
		return true
	}
	return argQ == Mut
}
