// Package vm is a minimal in-repo interpreter for the instruction/operator/
// value triple pkg/compiler's generator emits (§4.8 addendum). The
// production Barracuda runtime lives outside this repository; this package
// exists only so this repo's own tests can check a compiled program's
// observable behaviour (round-trip, stack depth, scenario output) rather
// than just its instruction shape. It implements exactly the opcodes the
// generator emits, nothing more.
//
// The shape — a State holding the program counter and memory, a Step that
// decodes and executes one instruction, and a Run loop around it — mirrors
// smasonuk-sicpu's pkg/cpu/cpu.go fetch-decode-Step loop, re-armed for a
// stack machine over float64 operands instead of a 16-bit register CPU.
package vm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/barracuda-lang/barracudac/pkg/compiler"
)

// Memory layout is a single flat float64 array with three contiguous
// regions, in address order: user space (globals and constant arrays,
// copied in from the compiled Program verbatim), the env-var region (one
// slot per host index the program's env_vars table references), and the
// frame region, which grows and shrinks as a stack as calls nest. This
// keeps every "pointer" pkg/compiler's generator produces — a LOAD_GLOBAL_PTR,
// LDCUPTR, or LOAD_LOCAL_PTR result — a plain absolute index into the same
// array, so LOAD_IND/STORE_IND never need to know which region a pointer
// came from.
type State struct {
	prog *compiler.Program

	mem        []float64
	envBase    int
	frameBase0 int // first address of the frame region
	frameTop   int // next free address in the frame region

	operand []float64
	calls   []callFrame

	pc     int
	Halted bool

	// Output receives PRINT's formatted text. Defaults to os.Stdout.
	Output io.Writer
}

type callFrame struct {
	returnPC     int
	frameBase    int
	argc         int
	returnsValue bool
}

// New builds a State ready to run prog. host supplies the current value of
// each env var the program declared, keyed by host index (§6's
// env_vars[].ptr_offset); an index the program references but host omits
// reads as zero.
func New(prog *compiler.Program, host map[int]float64) *State {
	envSize := 0
	for _, ev := range prog.EnvVars {
		if ev.HostIndex+1 > envSize {
			envSize = ev.HostIndex + 1
		}
	}

	mem := make([]float64, len(prog.UserSpace)+envSize)
	copy(mem, prog.UserSpace)
	envBase := len(prog.UserSpace)
	for idx, v := range host {
		if idx >= 0 && idx < envSize {
			mem[envBase+idx] = v
		}
	}

	return &State{
		prog:       prog,
		mem:        mem,
		envBase:    envBase,
		frameBase0: len(mem),
		frameTop:   len(mem),
		Output:     os.Stdout,
	}
}

// Run executes instructions until HLT or an unrecoverable runtime error.
func (s *State) Run() error {
	for !s.Halted {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step decodes and executes the instruction at the current program
// counter. It is a no-op once Halted.
func (s *State) Step() error {
	if s.Halted {
		return nil
	}
	if s.pc < 0 || s.pc >= len(s.prog.Instructions) {
		return fmt.Errorf("vm: pc %d out of range", s.pc)
	}
	instr := s.prog.Instructions[s.pc]
	next := s.pc + 1

	switch instr.Op {
	case compiler.OpNop:
		// nothing

	case compiler.OpOP:
		if err := s.applyOperator(instr.Operator); err != nil {
			return err
		}

	case compiler.OpPUSH:
		s.push(s.prog.Values[instr.Operand])

	case compiler.OpLOAD_LOCAL:
		s.push(s.mem[s.currentFrameBase()+instr.Operand])
	case compiler.OpSTORE_LOCAL:
		s.mem[s.currentFrameBase()+instr.Operand] = s.pop()
	case compiler.OpLOAD_LOCAL_PTR:
		s.push(float64(s.currentFrameBase() + instr.Operand))

	case compiler.OpLOAD_GLOBAL, compiler.OpLDCUX:
		s.push(s.mem[instr.Operand])
	case compiler.OpSTORE_GLOBAL:
		s.mem[instr.Operand] = s.pop()
	case compiler.OpLOAD_GLOBAL_PTR, compiler.OpLDCUPTR:
		s.push(float64(instr.Operand))

	case compiler.OpLOAD_IND:
		addr := int(s.pop())
		s.push(s.mem[addr])
	case compiler.OpSTORE_IND:
		addr := int(s.pop())
		v := s.pop()
		s.mem[addr] = v

	case compiler.OpLOAD_ENV:
		s.push(s.mem[s.envBase+instr.Operand])
	case compiler.OpLOAD_ENV_PTR:
		s.push(float64(s.envBase + instr.Operand))
	case compiler.OpLOAD_ENV_IND:
		idx := int(s.pop())
		s.push(s.mem[s.envBase+instr.Operand+idx])

	case compiler.OpJMP:
		next = instr.Operand
	case compiler.OpJZ:
		if s.pop() == 0 {
			next = instr.Operand
		}

	case compiler.OpFRAME:
		base := s.frameTop
		s.growFrame(base, instr.Operand)
		if n := len(s.calls); n > 0 {
			cf := &s.calls[n-1]
			for i := cf.argc - 1; i >= 0; i-- {
				s.mem[base+i] = s.pop()
			}
		}
		s.frameTop = base + instr.Operand

	case compiler.OpCALL:
		s.calls = append(s.calls, callFrame{
			returnPC:     next,
			frameBase:    s.frameTop,
			argc:         instr.CallArgs,
			returnsValue: instr.ReturnsValue,
		})
		next = instr.Operand

	case compiler.OpRET:
		n := len(s.calls)
		if n == 0 {
			return fmt.Errorf("vm: RET with no active call")
		}
		cf := s.calls[n-1]
		s.calls = s.calls[:n-1]
		s.frameTop = cf.frameBase
		next = cf.returnPC

	case compiler.OpPOP:
		s.pop()

	case compiler.OpPRINT:
		v := s.pop()
		if instr.Operand != 0 {
			s.printString(v)
		} else {
			s.printScalar(v)
		}

	case compiler.OpHLT:
		s.Halted = true

	default:
		return fmt.Errorf("vm: unimplemented opcode %s", instr.Op)
	}

	s.pc = next
	return nil
}

func (s *State) currentFrameBase() int {
	if n := len(s.calls); n > 0 {
		return s.calls[n-1].frameBase
	}
	return s.frameBase0
}

func (s *State) growFrame(base, n int) {
	need := base + n
	if need <= len(s.mem) {
		for i := base; i < need; i++ {
			s.mem[i] = 0
		}
		return
	}
	grown := make([]float64, need)
	copy(grown, s.mem)
	s.mem = grown
}

func (s *State) push(v float64) { s.operand = append(s.operand, v) }

func (s *State) pop() float64 {
	n := len(s.operand)
	v := s.operand[n-1]
	s.operand = s.operand[:n-1]
	return v
}

func (s *State) applyOperator(op compiler.Operator) error {
	switch op {
	case compiler.OperatorNot:
		v := s.pop()
		if v == 0 {
			s.push(1)
		} else {
			s.push(0)
		}
		return nil
	case compiler.OperatorNeg:
		s.push(-s.pop())
		return nil
	}

	b, a := s.pop(), s.pop()
	switch op {
	case compiler.OperatorAdd:
		s.push(a + b)
	case compiler.OperatorSub:
		s.push(a - b)
	case compiler.OperatorMul:
		s.push(a * b)
	case compiler.OperatorDiv:
		s.push(a / b)
	case compiler.OperatorMod:
		s.push(math.Mod(a, b))
	case compiler.OperatorPow:
		s.push(math.Pow(a, b))
	case compiler.OperatorEq:
		s.push(boolf(a == b))
	case compiler.OperatorNeq:
		s.push(boolf(a != b))
	case compiler.OperatorLt:
		s.push(boolf(a < b))
	case compiler.OperatorLte:
		s.push(boolf(a <= b))
	case compiler.OperatorGt:
		s.push(boolf(a > b))
	case compiler.OperatorGte:
		s.push(boolf(a >= b))
	case compiler.OperatorShl:
		s.push(float64(int64(a) << uint(int64(b))))
	case compiler.OperatorShr:
		s.push(float64(int64(a) >> uint(int64(b))))
	default:
		return fmt.Errorf("vm: unimplemented operator %s", op)
	}
	return nil
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// printScalar formats a value per the VM contract §4.4 leaves open: an
// integral value prints without a decimal point regardless of whether its
// static type was an integer or a whole-number float (S4 prints `f(2)` and
// `f(2.0)` identically as `3`).
func (s *State) printScalar(v float64) {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		fmt.Fprintf(s.Output, "%d\n", int64(v))
		return
	}
	fmt.Fprintf(s.Output, "%g\n", v)
}

// printString walks packed character slots starting at address addr,
// reversing strings.go's bit-for-bit packing (§4.5): each slot's bits are
// perSlot characters, one byte per character, least-significant byte
// first, a zero byte terminating early within a slot and an all-zero slot
// terminating the string outright.
func (s *State) printString(addr float64) {
	w := bufio.NewWriter(s.Output)
	defer w.Flush()

	perSlot := s.prog.Precision.CharsPerSlot()
	i := int(addr)
outer:
	for ; i < len(s.mem); i++ {
		word := s.prog.Precision.BitsOf(s.mem[i])
		if word == 0 {
			break
		}
		for j := 0; j < perSlot; j++ {
			ch := byte(word >> (8 * uint(j)))
			if ch == 0 {
				break outer
			}
			w.WriteByte(ch)
		}
	}
}
