package compiler

import "fmt"

// Qualifier is the mutability annotation carried by every symbol and
// every expression's resolved type. Default is Const.
type Qualifier int

const (
	Const Qualifier = iota
	Mut
)

func (q Qualifier) String() string {
	if q == Mut {
		return "mut"
	}
	return "const"
}

// Kind is the closed set of primitive/composite type shapes in §3.
type Kind int

const (
	KindI8 Kind = iota
	KindI16
	KindI32
	KindI64
	KindI128
	KindF8
	KindF16
	KindF32
	KindF64
	KindF128
	KindBool
	KindNone
	KindPointer
	KindArray
	KindString
	KindEnvVar // the "environmentvariable" pseudo-type
)

// byteSize is the storage width of each primitive kind, used for pointer
// arithmetic and user-space sizing. Pointers are one machine word (the
// generator's words are the configured float precision's width).
var byteSize = map[Kind]int{
	KindI8: 1, KindI16: 2, KindI32: 4, KindI64: 8, KindI128: 16,
	KindF8: 1, KindF16: 2, KindF32: 4, KindF64: 8, KindF128: 16,
	KindBool: 1, KindNone: 0,
}

// emittable reports whether the generator can actually produce a value of
// this width. i128/f128 are recognised type atoms (§9, Open Questions) but
// rejected at generation if a value of that width must be emitted.
func (k Kind) emittable() bool {
	return k != KindI128 && k != KindF128
}

func (k Kind) isInteger() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64, KindI128:
		return true
	}
	return false
}

func (k Kind) isFloat() bool {
	switch k {
	case KindF8, KindF16, KindF32, KindF64, KindF128:
		return true
	}
	return false
}

func (k Kind) isNumeric() bool { return k.isInteger() || k.isFloat() }

// intWidth/floatWidth order integer/float kinds from narrowest to widest,
// used by the widening rule in §4.4.
var intWidth = map[Kind]int{KindI8: 1, KindI16: 2, KindI32: 3, KindI64: 4, KindI128: 5}
var floatWidth = map[Kind]int{KindF8: 1, KindF16: 2, KindF32: 3, KindF64: 4, KindF128: 5}

// DataType is a resolved type: a Kind plus, for composite kinds, its
// pointee/element type, array length, and the qualifier of the value it
// types (I1).
type DataType struct {
	Kind     Kind
	Elem     *DataType // pointee (Pointer) or element (Array, String slot)
	Len      int       // array length (Array only)
	Qualifier Qualifier
}

func prim(k Kind, q Qualifier) DataType { return DataType{Kind: k, Qualifier: q} }

func ptrTo(elem DataType, q Qualifier) DataType {
	e := elem
	return DataType{Kind: KindPointer, Elem: &e, Qualifier: q}
}

func arrayOf(elem DataType, length int, q Qualifier) DataType {
	e := elem
	return DataType{Kind: KindArray, Elem: &e, Len: length, Qualifier: q}
}

func (t DataType) String() string {
	switch t.Kind {
	case KindPointer:
		return "*" + t.Elem.String()
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len)
	case KindString:
		return "string"
	case KindEnvVar:
		return "environmentvariable"
	default:
		if name, ok := kindNames[t.Kind]; ok {
			return name
		}
		return "?"
	}
}

var kindNames = map[Kind]string{
	KindI8: "i8", KindI16: "i16", KindI32: "i32", KindI64: "i64", KindI128: "i128",
	KindF8: "f8", KindF16: "f16", KindF32: "f32", KindF64: "f64", KindF128: "f128",
	KindBool: "bool", KindNone: "none",
}

func (t DataType) Equal(o DataType) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPointer:
		return t.Elem.Equal(*o.Elem)
	case KindArray:
		return t.Len == o.Len && t.Elem.Equal(*o.Elem)
	}
	return true
}

// numericCapable reports whether t may stand in for a numeric operand: the
// primitive numeric kinds, plus the environmentvariable pseudo-type, which
// §4.4/§9 resolve to a concrete numeric use at the generator's use site
// rather than at the type it's declared with.
func (t DataType) numericCapable() bool {
	return t.Kind.isNumeric() || t.Kind == KindEnvVar
}

// size returns the byte size of the type, per §3 (pointer = one word, array
// = length * element size).
func (t DataType) size(wordSize int) int {
	switch t.Kind {
	case KindPointer:
		return wordSize
	case KindArray:
		return t.Len * t.Elem.size(wordSize)
	case KindString:
		return wordSize
	default:
		return byteSize[t.Kind]
	}
}

// sameFamily reports whether two numeric types are both integer or both
// float, as required by comparison/equality typing (§4.4). An
// environmentvariable operand is compatible with either family: its
// concrete numeric use is only resolved at the generator's use site (§9).
func sameFamily(a, b DataType) bool {
	if a.Kind == KindEnvVar || b.Kind == KindEnvVar {
		return true
	}
	return (a.Kind.isInteger() && b.Kind.isInteger()) || (a.Kind.isFloat() && b.Kind.isFloat())
}

// commonNumeric computes the result type of a binary arithmetic operation
// per §4.4: integer+integer -> wider integer; any float involved -> wider
// float; mixed width widens to the larger. An environmentvariable operand
// (§9) defers to the other operand's concrete type; if both sides are
// environmentvariable the result defaults to i64, matching the default
// integer literal width (§4.4).
func commonNumeric(a, b DataType) (DataType, bool) {
	if !a.numericCapable() || !b.numericCapable() {
		return DataType{}, false
	}
	q := Const
	if a.Qualifier == Mut || b.Qualifier == Mut {
		q = Mut
	}
	if a.Kind == KindEnvVar && b.Kind == KindEnvVar {
		return prim(KindI64, q), true
	}
	if a.Kind == KindEnvVar {
		return prim(b.Kind, q), true
	}
	if b.Kind == KindEnvVar {
		return prim(a.Kind, q), true
	}
	if a.Kind.isFloat() || b.Kind.isFloat() {
		fa, aIsFloat := floatWidth[a.Kind]
		fb, bIsFloat := floatWidth[b.Kind]
		if !aIsFloat {
			fa = 0
		}
		if !bIsFloat {
			fb = 0
		}
		if fa >= fb && aIsFloat {
			return prim(a.Kind, q), true
		}
		if bIsFloat {
			return prim(b.Kind, q), true
		}
		return prim(a.Kind, q), true
	}
	if intWidth[a.Kind] >= intWidth[b.Kind] {
		return prim(a.Kind, q), true
	}
	return prim(b.Kind, q), true
}

// assignable reports whether a value of type src may be stored into an
// l-value of type dst, per §4.4: same primitive family and width >= lhs
// for integers and for floats, exact kind for everything else; pointers
// require an exact pointee match, arrays an equal length and an element type
// assignable by this same rule (so [1,2,3,4], typed [i8; 4], initialises a
// [i32; 4]).
// An environmentvariable operand (§9) is polymorphic: it's assignable to or
// from any numeric or pointer type, resolved to a concrete load/store
// instruction only once the generator reaches its use site.
func assignable(dst, src DataType) bool {
	if dst.Kind == KindEnvVar || src.Kind == KindEnvVar {
		return dst.Kind.isNumeric() || dst.Kind == KindPointer || dst.Kind == KindEnvVar ||
			src.Kind.isNumeric() || src.Kind == KindPointer || src.Kind == KindEnvVar
	}
	if dst.Kind == KindPointer && src.Kind == KindPointer {
		if dst.Elem.Kind == KindEnvVar || src.Elem.Kind == KindEnvVar {
			return true
		}
		return dst.Elem.Equal(*src.Elem)
	}
	if dst.Kind == KindArray && src.Kind == KindArray {
		return dst.Len == src.Len && assignable(*dst.Elem, *src.Elem)
	}
	if dst.Kind == KindArray || src.Kind == KindArray {
		return dst.Equal(src)
	}
	if dst.Kind.isInteger() && src.Kind.isInteger() {
		return intWidth[dst.Kind] >= intWidth[src.Kind]
	}
	if dst.Kind.isFloat() && src.Kind.isFloat() {
		return floatWidth[dst.Kind] >= floatWidth[src.Kind]
	}
	return dst.Kind == src.Kind
}

// narrowestIntFor returns the narrowest integer Kind that fits v, defaulting
// to i64 when v exceeds i32 range but is representable, per §4.4.
func narrowestIntFor(v int64) Kind {
	switch {
	case v >= -128 && v <= 127:
		return KindI8
	case v >= -32768 && v <= 32767:
		return KindI16
	case v >= -2147483648 && v <= 2147483647:
		return KindI32
	default:
		return KindI64
	}
}
