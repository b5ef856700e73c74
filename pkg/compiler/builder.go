package compiler

import "fmt"

// label is an opaque handle for a forward- or backward-referenced
// instruction address, resolved by Builder.Finalize.
type label int

// Builder accumulates an instruction stream, its aligned operator stream,
// the value pool, and the user-space memory image across two passes: emit
// (which may reference labels before they're placed) and Finalize (which
// patches every jump/call operand to its resolved address). This mirrors
// smasonuk-sicpu's pkg/asm/asm.go two-pass Assembler (pass1 collects label
// addresses and emits with placeholder operands; pass2 patches them) —
// here label *collection* and *emission* happen in the same walk because
// the generator controls control flow directly, so only the patch half
// needs a second pass.
type Builder struct {
	instrs []Instruction

	labelAddr map[label]int // -1 until PlaceLabel
	nextLabel label

	fixups []fixup

	values      []float64
	valueIndex  map[float64]int

	userSpace       []float64
	userSpaceCursor int

	envVars []EnvVarDecl

	precision Precision
}

type fixup struct {
	instrIndex int
	lbl        label
}

func NewBuilder(precision Precision) *Builder {
	return &Builder{
		labelAddr:  map[label]int{},
		valueIndex: map[float64]int{},
		precision:  precision,
	}
}

// NewLabel allocates a fresh, as-yet-unplaced label.
func (b *Builder) NewLabel() label {
	b.nextLabel++
	lbl := b.nextLabel
	b.labelAddr[lbl] = -1
	return lbl
}

// Here returns the address the next Emit call will occupy.
func (b *Builder) Here() int { return len(b.instrs) }

// Emit appends a plain instruction (Operator = OperatorNone) and returns its
// address.
func (b *Builder) Emit(op Opcode, operand int) int {
	b.instrs = append(b.instrs, Instruction{Op: op, Operand: operand})
	return len(b.instrs) - 1
}

// EmitOp appends an OP instruction carrying operator in the aligned
// operator stream.
func (b *Builder) EmitOp(operator Operator) int {
	b.instrs = append(b.instrs, Instruction{Op: OpOP, Operator: operator})
	return len(b.instrs) - 1
}

// EmitJump appends a control-flow instruction (JMP/JZ/CALL) targeting lbl
// with a placeholder operand, recording a fixup for Finalize to patch.
func (b *Builder) EmitJump(op Opcode, lbl label) int {
	idx := b.Emit(op, 0)
	b.fixups = append(b.fixups, fixup{instrIndex: idx, lbl: lbl})
	return idx
}

// EmitCall appends a CALL targeting lbl, recording the argument count and
// whether the callee leaves a return value, both needed by the stack
// estimator (§4.7).
func (b *Builder) EmitCall(lbl label, argCount int, returns bool) int {
	idx := len(b.instrs)
	b.instrs = append(b.instrs, Instruction{Op: OpCALL, CallArgs: argCount, ReturnsValue: returns})
	b.fixups = append(b.fixups, fixup{instrIndex: idx, lbl: lbl})
	return idx
}

// PlaceLabel records the current address as lbl's resolved address. A label
// may only be placed once.
func (b *Builder) PlaceLabel(lbl label) {
	b.labelAddr[lbl] = len(b.instrs)
}

// InternValue returns the value pool index for v, reusing an existing slot
// when the literal was already interned (matches the teacher's asm.go
// de-duplicating its data-label pool for repeated immediates).
func (b *Builder) InternValue(v float64) int {
	if idx, ok := b.valueIndex[v]; ok {
		return idx
	}
	idx := len(b.values)
	b.values = append(b.values, v)
	b.valueIndex[v] = idx
	return idx
}

// ReserveGlobal grows user space by words zero-initialised slots and
// returns the base offset of the reservation.
func (b *Builder) ReserveGlobal(words int) int {
	base := b.userSpaceCursor
	b.userSpace = append(b.userSpace, make([]float64, words)...)
	b.userSpaceCursor += words
	return base
}

// ReserveConstArray materialises values contiguously in user space (I4:
// constant arrays are fully materialised at generation time) and returns
// the base offset.
func (b *Builder) ReserveConstArray(values []float64) int {
	base := b.userSpaceCursor
	b.userSpace = append(b.userSpace, values...)
	b.userSpaceCursor += len(values)
	return base
}

// DeclareEnvVar records an extern binding to host memory.
func (b *Builder) DeclareEnvVar(name string, hostIndex int) {
	b.envVars = append(b.envVars, EnvVarDecl{Name: name, HostIndex: hostIndex})
}

// Finalize patches every recorded fixup to its label's resolved address and
// returns the completed Program (with RecommendedStackDepth left at zero —
// Generate fills it in once the instruction stream is final). It is an
// internal-compiler-error (not a CompileError — this indicates a generator
// bug, not a malformed source program) for a fixup's label to remain
// unplaced.
func (b *Builder) Finalize() (*Program, error) {
	for _, fx := range b.fixups {
		addr, ok := b.labelAddr[fx.lbl]
		if !ok || addr < 0 {
			return nil, fmt.Errorf("compiler: internal error: label %d referenced at instruction %d was never placed", fx.lbl, fx.instrIndex)
		}
		b.instrs[fx.instrIndex].Operand = addr
	}
	return &Program{
		Instructions: b.instrs,
		Values:       b.values,
		UserSpace:    b.userSpace,
		EnvVars:      b.envVars,
		Precision:    b.precision,
	}, nil
}
