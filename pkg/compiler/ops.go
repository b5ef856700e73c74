package compiler

import "fmt"

// Opcode is one instruction in the generated instruction stream (§3, §4.6).
// Most opcodes carry an immediate Operand; OP additionally carries an
// Operator in the aligned operator stream.
type Opcode int

const (
	OpNop Opcode = iota
	OpOP            // apply Operator (from the aligned operator stream) to the operand stack
	OpPUSH          // push value pool[operand] onto the operand stack
	OpLOAD_LOCAL    // push mem[frameBase+operand]
	OpSTORE_LOCAL   // pop operand stack; mem[frameBase+operand] = value
	OpLOAD_LOCAL_PTR
	OpLOAD_GLOBAL
	OpSTORE_GLOBAL
	OpLOAD_GLOBAL_PTR
	OpLDCUX  // load from constant memory (user space) by value
	OpLDCUPTR // load a pointer to constant memory (user space)
	OpLOAD_IND  // pop address, push mem[address]
	OpSTORE_IND // pop address, pop value, mem[address] = value
	OpLOAD_ENV
	OpLOAD_ENV_PTR
	OpLOAD_ENV_IND
	OpJMP
	OpJZ
	OpFRAME // grow the current call frame by operand zero-initialised slots
	OpCALL  // operand = label address; arg count is carried in Instruction.CallArgs
	OpRET
	OpPOP
	OpPRINT // pop value, hand it to the host's print sink
	OpHLT
)

var opcodeNames = map[Opcode]string{
	OpNop: "NOP", OpOP: "OP", OpPUSH: "PUSH",
	OpLOAD_LOCAL: "LOAD_LOCAL", OpSTORE_LOCAL: "STORE_LOCAL", OpLOAD_LOCAL_PTR: "LOAD_LOCAL_PTR",
	OpLOAD_GLOBAL: "LOAD_GLOBAL", OpSTORE_GLOBAL: "STORE_GLOBAL", OpLOAD_GLOBAL_PTR: "LOAD_GLOBAL_PTR",
	OpLDCUX: "LDCUX", OpLDCUPTR: "LDCUPTR",
	OpLOAD_IND: "LOAD_IND", OpSTORE_IND: "STORE_IND",
	OpLOAD_ENV: "LOAD_ENV", OpLOAD_ENV_PTR: "LOAD_ENV_PTR", OpLOAD_ENV_IND: "LOAD_ENV_IND",
	OpJMP: "JMP", OpJZ: "JZ", OpFRAME: "FRAME", OpCALL: "CALL", OpRET: "RET",
	OpPOP: "POP", OpPRINT: "PRINT", OpHLT: "HLT",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// Operator is the verb an OP instruction applies to the operand stack.
// OperatorNone fills the aligned operator stream slot of every instruction
// that is not OP.
type Operator int

const (
	OperatorNone Operator = iota
	OperatorAdd
	OperatorSub
	OperatorMul
	OperatorDiv
	OperatorMod
	OperatorPow
	OperatorEq
	OperatorNeq
	OperatorLt
	OperatorLte
	OperatorGt
	OperatorGte
	OperatorShl
	OperatorShr
	OperatorNot // unary !
	OperatorNeg // unary -
)

var operatorNames = map[Operator]string{
	OperatorNone: "NONE", OperatorAdd: "ADD", OperatorSub: "SUB", OperatorMul: "MUL",
	OperatorDiv: "DIV", OperatorMod: "MOD", OperatorPow: "POW",
	OperatorEq: "EQ", OperatorNeq: "NEQ", OperatorLt: "LT", OperatorLte: "LTE",
	OperatorGt: "GT", OperatorGte: "GTE", OperatorShl: "SHL", OperatorShr: "SHR",
	OperatorNot: "NOT", OperatorNeg: "NEG",
}

var operatorByName = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorNames))
	for o, name := range operatorNames {
		m[name] = o
	}
	return m
}()

func (o Operator) String() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// binaryOperatorFor maps a binary token type to its Operator.
var binaryOperatorFor = map[TokenType]Operator{
	PLUS: OperatorAdd, MINUS: OperatorSub, STAR: OperatorMul, SLASH: OperatorDiv,
	PERCENT: OperatorMod, CARET: OperatorPow,
	EQ: OperatorEq, NEQ: OperatorNeq, LESS: OperatorLt, LESS_EQ: OperatorLte,
	GREATER: OperatorGt, GREATER_EQ: OperatorGte, SHL: OperatorShl, SHR: OperatorShr,
}

// instructionArity returns the (push, pop) slot delta an instruction has on
// the operand stack, for the stack estimator (§4.7). OP's delta depends on
// its aligned Operator; CALL's depends on its per-call argument count and
// whether the callee returns a value.
func instructionArity(instr Instruction) (push, pop int) {
	switch instr.Op {
	case OpOP:
		return operatorArity(instr.Operator)
	case OpCALL:
		push = 0
		if instr.ReturnsValue {
			push = 1
		}
		return push, instr.CallArgs
	case OpRET:
		if instr.ReturnsValue {
			return 0, 1
		}
		return 0, 0
	case OpPUSH, OpLOAD_LOCAL, OpLOAD_LOCAL_PTR, OpLOAD_GLOBAL, OpLOAD_GLOBAL_PTR,
		OpLDCUX, OpLDCUPTR, OpLOAD_ENV, OpLOAD_ENV_PTR:
		return 1, 0
	case OpSTORE_LOCAL, OpSTORE_GLOBAL, OpJZ, OpPOP, OpPRINT:
		return 0, 1
	case OpLOAD_IND, OpLOAD_ENV_IND:
		return 1, 1
	case OpSTORE_IND:
		return 0, 2
	default:
		return 0, 0
	}
}

func operatorArity(o Operator) (push, pop int) {
	switch o {
	case OperatorNot, OperatorNeg:
		return 1, 1
	case OperatorNone:
		return 0, 0
	default:
		return 1, 2
	}
}
