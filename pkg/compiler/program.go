package compiler

// Instruction is one slot of the instruction stream, aligned 1:1 with the
// operator stream (§3, §4.6): Operand selects a value-pool/user-space/frame
// offset or a resolved label address depending on Op; Operator is only
// meaningful when Op == OpOP.
type Instruction struct {
	Op       Opcode
	Operand  int
	Operator Operator

	// CallArgs is only meaningful when Op == OpCALL: the number of
	// operand-stack values the call consumes as arguments.
	CallArgs int
	// ReturnsValue is meaningful on OpCALL (does the callee leave a return
	// value behind) and OpRET (does this particular return hand one back).
	ReturnsValue bool
}

// EnvVarDecl describes one extern symbol's binding to host memory (§4.4,
// §6): the name the source program uses and the host index it reads from.
type EnvVarDecl struct {
	Name      string
	HostIndex int
}

// Program is the finished bytecode artifact (§3): the instruction stream,
// its aligned operator stream, the value pool literals are drawn from, the
// user-space memory image (globals and materialised constant arrays), the
// env-var table, and the estimator's recommended operand-stack bound.
type Program struct {
	Instructions []Instruction
	Values       []float64 // the value pool; PUSH indexes into this (LDCUX/LDCUPTR take user-space offsets)
	UserSpace    []float64 // initial image of global + constant-array memory
	EnvVars      []EnvVarDecl
	Precision    Precision

	RecommendedStackDepth int
}
