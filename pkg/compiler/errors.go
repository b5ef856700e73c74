package compiler

import "fmt"

// ErrorKind classifies a compile failure the way §7 of the language spec
// enumerates them. The compiler never recovers from an error: the first
// one stops the pipeline and is returned to the caller.
type ErrorKind int

const (
	KindParse ErrorKind = iota
	KindResolution
	KindType
	KindQualifier
	KindOverload
	KindSize
	KindGeneration
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindResolution:
		return "resolution error"
	case KindType:
		return "type error"
	case KindQualifier:
		return "qualifier error"
	case KindOverload:
		return "overload error"
	case KindSize:
		return "size error"
	case KindGeneration:
		return "generation error"
	default:
		return "error"
	}
}

// CompileError is the single error shape every stage returns on failure:
// a kind, a free-text message, and the source offset range it pertains to.
type CompileError struct {
	Kind    ErrorKind
	Message string
	Offset  int
	Length  int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Message)
}

func newErr(kind ErrorKind, span Span, format string, args ...any) *CompileError {
	return &CompileError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  span.Offset,
		Length:  span.Length,
	}
}
