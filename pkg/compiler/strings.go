package compiler

import "math"

// Precision selects the numeric width the compiler packs decimal literals
// and string characters into (§4.5). Only f32/f64 are supported.
type Precision int

const (
	F32 Precision = iota
	F64
)

// CharsPerSlot returns how many characters pack into one user-space slot
// at this precision (4 for f32, 8 for f64).
func (p Precision) CharsPerSlot() int {
	if p == F64 {
		return 8
	}
	return 4
}

func (p Precision) floatKind() Kind {
	if p == F64 {
		return KindF64
	}
	return KindF32
}

// packString is a pure function of (string bytes, precision): it packs s
// character-by-character into one slot per CharsPerSlot()
// characters, little-character-first, null-padding the final slot, and
// always appending one all-zero terminator slot so the runtime can find the
// end of the packed string (§4.5).
//
// Each slot's bytes are the raw bit pattern of a float of the configured
// precision, not a numeric conversion: the VM's print routine for a string
// pointer re-reads those bytes as packed characters rather than formatting
// the slot as a number (S6: packing {'h','i','\n','\0'} into one f32 slot
// means those four bytes ARE the f32's bit pattern, not the value 'h'+...).
// The generator stores the slots in user space as float64, widened from the
// narrower bit pattern when precision is f32.
func packString(s string, precision Precision) []float64 {
	runes := []rune(s)
	perSlot := precision.CharsPerSlot()
	var slots []float64
	for i := 0; i < len(runes); i += perSlot {
		var word uint64
		for j := 0; j < perSlot; j++ {
			var ch uint64
			if i+j < len(runes) {
				ch = uint64(byte(runes[i+j]))
			}
			word |= ch << (8 * uint(j))
		}
		slots = append(slots, bitsToSlot(word, precision))
	}
	slots = append(slots, 0) // null terminator slot
	return slots
}

// bitsToSlot reinterprets the low perSlot*8 bits of word as the raw bit
// pattern of a float of the configured precision, widening f32 patterns to
// float64 for storage in user space.
func bitsToSlot(word uint64, precision Precision) float64 {
	if precision == F64 {
		return math.Float64frombits(word)
	}
	return float64(math.Float32frombits(uint32(word)))
}

// BitsOf is bitsToSlot's inverse: it recovers the raw packed bit pattern a
// slot holds at this precision, for a reader (pkg/vm's print
// routine) that needs the original bytes back rather than the float's
// numeric value.
func (p Precision) BitsOf(v float64) uint64 {
	if p == F64 {
		return math.Float64bits(v)
	}
	return uint64(math.Float32bits(float32(v)))
}
