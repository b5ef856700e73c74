package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // name
	INTEGER    // decimal integer literal, no fractional part
	DECIMAL    // decimal literal with a fractional and/or exponent part
	STRING     // "..."
	TRUE       // true
	FALSE      // false

	// Type atoms
	TY_I8
	TY_I16
	TY_I32
	TY_I64
	TY_I128
	TY_F8
	TY_F16
	TY_F32
	TY_F64
	TY_F128
	TY_BOOL
	TY_NONE

	// Keywords
	LET
	MUT
	CONST
	FN
	EXTERN
	PRINT
	RETURN
	IF
	ELSE
	FOR
	WHILE
	AND_KW // "and" (alias of &&)
	OR_KW  // "or"  (alias of ||)

	// Paired delimiters
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET

	// Punctuation
	SEMICOLON
	COMMA
	COLON
	ARROW // ->
	QUESTION
	AMP // & (address-of / reference)

	// Arithmetic / bitwise operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET // ^ (exponent)
	SHL
	SHR

	// Logical / comparison
	NOT
	AND_AND
	OR_OR
	ASSIGN
	EQ
	NEQ
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
)

var tokenNames = map[TokenType]string{
	EOF: "EOF", IDENTIFIER: "identifier", INTEGER: "integer", DECIMAL: "decimal",
	STRING: "string", TRUE: "true", FALSE: "false",
	TY_I8: "i8", TY_I16: "i16", TY_I32: "i32", TY_I64: "i64", TY_I128: "i128",
	TY_F8: "f8", TY_F16: "f16", TY_F32: "f32", TY_F64: "f64", TY_F128: "f128",
	TY_BOOL: "bool", TY_NONE: "none",
	LET: "let", MUT: "mut", CONST: "const", FN: "fn", EXTERN: "extern",
	PRINT: "print", RETURN: "return", IF: "if", ELSE: "else", FOR: "for",
	WHILE: "while", AND_KW: "and", OR_KW: "or",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	SEMICOLON: ";", COMMA: ",", COLON: ":", ARROW: "->", QUESTION: "?", AMP: "&",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", CARET: "^",
	SHL: "<<", SHR: ">>",
	NOT: "!", AND_AND: "&&", OR_OR: "||", ASSIGN: "=", EQ: "==", NEQ: "!=",
	LESS: "<", LESS_EQ: "<=", GREATER: ">", GREATER_EQ: ">=",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// keywords maps source text to its keyword/type-atom TokenType.
var keywords = map[string]TokenType{
	"i8": TY_I8, "i16": TY_I16, "i32": TY_I32, "i64": TY_I64, "i128": TY_I128,
	"f8": TY_F8, "f16": TY_F16, "f32": TY_F32, "f64": TY_F64, "f128": TY_F128,
	"bool": TY_BOOL, "none": TY_NONE,
	"let": LET, "mut": MUT, "const": CONST, "fn": FN, "extern": EXTERN,
	"print": PRINT, "return": RETURN, "if": IF, "else": ELSE, "for": FOR,
	"while": WHILE, "and": AND_KW, "or": OR_KW,
	"true": TRUE, "false": FALSE,
}

// Span is a byte offset range into the source text.
type Span struct {
	Offset int
	Length int
}

func (s Span) join(other Span) Span {
	end := s.Offset + s.Length
	otherEnd := other.Offset + other.Length
	if otherEnd > end {
		end = otherEnd
	}
	return Span{Offset: s.Offset, Length: end - s.Offset}
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string
	Span   Span
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q @%d", t.Type, t.Lexeme, t.Span.Offset)
}
