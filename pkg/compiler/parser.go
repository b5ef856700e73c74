package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds the
// typed AST directly — there is no separate concrete-parse-tree stage (see
// SPEC_FULL.md's Open Questions): the grammar's precedence ladder is this
// file's call graph.
//
// Precedence (lowest -> highest), matching the language spec exactly:
//
//	expression = ternary
//	ternary    = equality ("?" ternary ":" ternary)?
//	equality   = comparison (("==" | "!=") comparison)*
//	comparison = logical (("<" | "<=" | ">" | ">=") logical)*
//	logical    = shift (("&&" | "and" | "||" | "or") shift)*
//	shift      = term (("<<" | ">>") term)*
//	term       = factor (("+" | "-") factor)*
//	factor     = exponent (("*" | "/" | "%") exponent)*
//	exponent   = unary ("^" unary)*
//	unary      = ("!" | "-") unary | indexing
//	indexing   = pointerPrefix ("[" expression "]")*
//	pointerPrefix = "*" pointerPrefix | primary
//	primary    = INTEGER | DECIMAL | STRING | TRUE | FALSE
//	           | "[" args "]" | "&" IDENTIFIER | IDENTIFIER "(" args ")"
//	           | IDENTIFIER | "(" expression ")"
type Parser struct {
	tokens []Token
	pos    int
	src    string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, src: rawSource}
}

// Parse tokenizes nothing further (tokens are already lexed) and returns
// the parsed SourceUnit, or the first parse error encountered.
func Parse(tokens []Token, rawSource string) (*SourceUnit, error) {
	p := NewParser(tokens, rawSource)
	var stmts []Stmt
	for p.peek().Type != EOF {
		s, err := p.parseGlobalStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return &SourceUnit{Stmts: stmts}, nil
}

func (p *Parser) err(span Span, format string, args ...any) error {
	return newErr(KindParse, span, format, args...)
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.err(tok.Span, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

func (p *Parser) check(tt TokenType) bool { return p.peek().Type == tt }

//  Types

func (p *Parser) parseType() (*TypeExpr, error) {
	tok := p.peek()
	if tok.Type == STAR {
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Span: tok.Span.join(inner.Span), Pointer: inner}, nil
	}
	if tok.Type == LBRACKET {
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON); err != nil {
			return nil, err
		}
		lenExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(RBRACKET)
		if err != nil {
			return nil, err
		}
		return &TypeExpr{Span: tok.Span.join(end.Span), Array: &ArrayTypeSyntax{Elem: elem, Len: lenExpr}}, nil
	}
	if !isTypeAtom(tok.Type) {
		return nil, p.err(tok.Span, "expected a type, got %s (%q)", tok.Type, tok.Lexeme)
	}
	p.advance()
	return &TypeExpr{Span: tok.Span, Prim: tok.Type}, nil
}

func isTypeAtom(tt TokenType) bool {
	switch tt {
	case TY_I8, TY_I16, TY_I32, TY_I64, TY_I128, TY_F8, TY_F16, TY_F32, TY_F64, TY_F128, TY_BOOL, TY_NONE:
		return true
	}
	return false
}

//  Global / block statements

func (p *Parser) parseGlobalStmt() (Stmt, error) {
	switch p.peek().Type {
	case FN:
		return p.parseFuncDecl()
	case EXTERN:
		return p.parseExtern()
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseBlock() (*BlockStmt, error) {
	start, err := p.expect(LBRACE)
	if err != nil {
		return nil, err
	}
	var stmts []Stmt
	for !p.check(RBRACE) && !p.check(EOF) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	end, err := p.expect(RBRACE)
	if err != nil {
		return nil, err
	}
	return &BlockStmt{stmtBase: stmtBase{span: start.Span.join(end.Span)}, Stmts: stmts}, nil
}

func (p *Parser) parseStmt() (Stmt, error) {
	switch p.peek().Type {
	case LET:
		return p.parseLet()
	case PRINT:
		return p.parsePrint()
	case RETURN:
		return p.parseReturn()
	case EXTERN:
		return p.parseExtern()
	case IF:
		return p.parseIf()
	case FOR:
		return p.parseFor()
	case WHILE:
		return p.parseWhile()
	case LBRACE:
		return p.parseBlock()
	case FN:
		return p.parseFuncDecl()
	default:
		return p.parseAssignOrCall()
	}
}

// parseLet handles all six let-construct forms.
func (p *Parser) parseLet() (Stmt, error) {
	start, _ := p.expect(LET)
	qualExplicit := false
	qual := Const
	if p.check(MUT) {
		p.advance()
		qualExplicit = true
		qual = Mut
	} else if p.check(CONST) {
		p.advance()
		qualExplicit = true
		qual = Const
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	var declType *TypeExpr
	if p.check(COLON) {
		p.advance()
		declType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	var init Expr
	if p.check(ASSIGN) {
		p.advance()
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	end, err := p.expect(SEMICOLON)
	if err != nil {
		return nil, err
	}
	if declType == nil && init == nil {
		return nil, p.err(start.Span.join(end.Span), "let %q needs an explicit type or an initialiser", name.Lexeme)
	}
	return &LetStmt{
		stmtBase:          stmtBase{span: start.Span.join(end.Span)},
		QualifierExplicit: qualExplicit,
		Qualifier:         qual,
		Name:              name.Lexeme,
		DeclaredType:      declType,
		Init:              init,
	}, nil
}

func (p *Parser) parsePrint() (Stmt, error) {
	start, _ := p.expect(PRINT)
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	end, err := p.expect(SEMICOLON)
	if err != nil {
		return nil, err
	}
	return &PrintStmt{stmtBase: stmtBase{span: start.Span.join(end.Span)}, Value: val}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	start, _ := p.expect(RETURN)
	var val Expr
	if !p.check(SEMICOLON) {
		var err error
		val, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	end, err := p.expect(SEMICOLON)
	if err != nil {
		return nil, err
	}
	return &ReturnStmt{stmtBase: stmtBase{span: start.Span.join(end.Span)}, Value: val}, nil
}

func (p *Parser) parseExtern() (Stmt, error) {
	start, _ := p.expect(EXTERN)
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(SEMICOLON)
	if err != nil {
		return nil, err
	}
	return &ExternStmt{stmtBase: stmtBase{span: start.Span.join(end.Span)}, Name: name.Lexeme}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	start, _ := p.expect(IF)
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{stmtBase: stmtBase{span: start.Span}, Cond: cond, Then: then}
	if p.check(ELSE) {
		p.advance()
		if p.check(IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.ElseBody = elseIf
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.ElseBody = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	start, _ := p.expect(WHILE)
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{stmtBase: stmtBase{span: start.Span}, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	start, _ := p.expect(FOR)
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	init, err := p.parseLet()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	step, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{stmtBase: stmtBase{span: start.Span}, Init: init, Cond: cond, Step: step, Body: body}, nil
}

func (p *Parser) parseFuncDecl() (Stmt, error) {
	start, _ := p.expect(FN)
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []Param
	if !p.check(RPAREN) {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.check(COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	var retType *TypeExpr
	if p.check(ARROW) {
		p.advance()
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{stmtBase: stmtBase{span: start.Span}, Name: name.Lexeme, Params: params, ReturnType: retType, Body: body}, nil
}

func (p *Parser) parseParam() (Param, error) {
	start := p.peek()
	qualExplicit := false
	qual := Const
	if p.check(MUT) {
		p.advance()
		qualExplicit = true
		qual = Mut
	} else if p.check(CONST) {
		p.advance()
		qualExplicit = true
		qual = Const
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return Param{}, err
	}
	if _, err := p.expect(COLON); err != nil {
		return Param{}, err
	}
	ty, err := p.parseType()
	if err != nil {
		return Param{}, err
	}
	return Param{Span: start.Span.join(ty.Span), Name: name.Lexeme, QualifierExplicit: qualExplicit, Qualifier: qual, Type: ty}, nil
}

// parseAssignOrCall disambiguates a statement starting with an expression:
// either an assignment (lvalue = value;) or a naked call (f(args);).
func (p *Parser) parseAssignOrCall() (Stmt, error) {
	start := p.peek()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.check(ASSIGN) {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(SEMICOLON)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{stmtBase: stmtBase{span: start.Span.join(end.Span)}, Target: expr, Value: value}, nil
	}
	call, ok := expr.(*Call)
	if !ok {
		return nil, p.err(expr.Source(), "expected an assignment or a function call, got %s", expr)
	}
	end, err := p.expect(SEMICOLON)
	if err != nil {
		return nil, err
	}
	return &NakedCallStmt{stmtBase: stmtBase{span: start.Span.join(end.Span)}, Call: call}, nil
}

// parseAssignment parses just the `lvalue = value` shape with no trailing
// semicolon, used by the `for` step clause.
func (p *Parser) parseAssignment() (Stmt, error) {
	start := p.peek()
	target, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &AssignStmt{stmtBase: stmtBase{span: start.Span.join(value.Source())}, Target: target, Value: value}, nil
}

//  Expressions

func (p *Parser) parseExpression() (Expr, error) { return p.parseTernary() }

func (p *Parser) parseTernary() (Expr, error) {
	cond, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	if !p.check(QUESTION) {
		return cond, nil
	}
	p.advance()
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &Ternary{exprBase: exprBase{span: cond.Source().join(els.Source())}, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	return p.parseBinaryLevel(p.parseComparison, EQ, NEQ)
}

func (p *Parser) parseComparison() (Expr, error) {
	return p.parseBinaryLevel(p.parseLogical, LESS, LESS_EQ, GREATER, GREATER_EQ)
}

func (p *Parser) parseLogical() (Expr, error) {
	expr, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for {
		tt := p.peek().Type
		if tt != AND_AND && tt != OR_OR && tt != AND_KW && tt != OR_KW {
			break
		}
		op := p.advance().Type
		if op == AND_KW {
			op = AND_AND
		} else if op == OR_KW {
			op = OR_OR
		}
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		expr = &Logical{exprBase: exprBase{span: expr.Source().join(right.Source())}, Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseShift() (Expr, error) { return p.parseBinaryLevel(p.parseTerm, SHL, SHR) }
func (p *Parser) parseTerm() (Expr, error)  { return p.parseBinaryLevel(p.parseFactor, PLUS, MINUS) }
func (p *Parser) parseFactor() (Expr, error) {
	return p.parseBinaryLevel(p.parseExponent, STAR, SLASH, PERCENT)
}
func (p *Parser) parseExponent() (Expr, error) { return p.parseBinaryLevel(p.parseUnary, CARET) }

// parseBinaryLevel left-folds a chain of same-precedence binary operators
// into a left-associative tree (§4.2: "a-b-c -> (a-b)-c").
func (p *Parser) parseBinaryLevel(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for matchesAny(p.peek().Type, ops) {
		op := p.advance().Type
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &Binary{exprBase: exprBase{span: expr.Source().join(right.Source())}, Op: op, Left: expr, Right: right}
	}
	return expr, nil
}

func matchesAny(tt TokenType, ops []TokenType) bool {
	for _, o := range ops {
		if tt == o {
			return true
		}
	}
	return false
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.check(NOT) || p.check(MINUS) {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{exprBase: exprBase{span: op.Span.join(operand.Source())}, Op: op.Type, Operand: operand}, nil
	}
	return p.parseIndexing()
}

// parseIndexing wraps "[" around the whole pointerPrefix result rather than
// letting pointerPrefix consume it, so a leading "*" binds tighter than "[":
// `*p[0]` parses as `(*p)[0]`, dereference-then-index, not `*(p[0])`. This
// is an explicit design choice, matching how a fixed-size array decays to a
// pointer that indexing should see through.
func (p *Parser) parseIndexing() (Expr, error) {
	expr, err := p.parsePointerPrefix()
	if err != nil {
		return nil, err
	}
	for p.check(LBRACKET) {
		p.advance()
		idx, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(RBRACKET)
		if err != nil {
			return nil, err
		}
		expr = &Index{exprBase: exprBase{span: expr.Source().join(end.Span)}, Base: expr, Index: idx}
	}
	return expr, nil
}

func (p *Parser) parsePointerPrefix() (Expr, error) {
	if p.check(STAR) {
		star := p.advance()
		operand, err := p.parsePointerPrefix()
		if err != nil {
			return nil, err
		}
		return &PointerDeref{exprBase: exprBase{span: star.Span.join(operand.Source())}, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER:
		p.advance()
		val, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.err(tok.Span, "invalid integer literal %q", tok.Lexeme)
		}
		return &IntLiteral{exprBase: exprBase{span: tok.Span}, Value: val}, nil

	case DECIMAL:
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.err(tok.Span, "invalid decimal literal %q", tok.Lexeme)
		}
		return &DecimalLiteral{exprBase: exprBase{span: tok.Span}, Value: val}, nil

	case TRUE:
		p.advance()
		return &BoolLiteral{exprBase: exprBase{span: tok.Span}, Value: true}, nil
	case FALSE:
		p.advance()
		return &BoolLiteral{exprBase: exprBase{span: tok.Span}, Value: false}, nil

	case STRING:
		p.advance()
		return &StringLiteral{exprBase: exprBase{span: tok.Span}, Value: tok.Lexeme}, nil

	case AMP:
		p.advance()
		idTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		id := &Identifier{exprBase: exprBase{span: idTok.Span}, Name: idTok.Lexeme}
		return &Reference{exprBase: exprBase{span: tok.Span.join(idTok.Span)}, Target: id}, nil

	case LBRACKET:
		p.advance()
		var elems []Expr
		if !p.check(RBRACKET) {
			for {
				e, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if !p.check(COMMA) {
					break
				}
				p.advance()
			}
		}
		end, err := p.expect(RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{exprBase: exprBase{span: tok.Span.join(end.Span)}, Elements: elems}, nil

	case IDENTIFIER:
		p.advance()
		if p.check(LPAREN) {
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(RPAREN)
			if err != nil {
				return nil, err
			}
			return &Call{exprBase: exprBase{span: tok.Span.join(end.Span)}, Name: tok.Lexeme, Args: args}, nil
		}
		return &Identifier{exprBase: exprBase{span: tok.Span}, Name: tok.Lexeme}, nil

	case LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, p.err(tok.Span, "unexpected token %s (%q)", tok.Type, tok.Lexeme)
	}
}

func (p *Parser) parseArgs() ([]Expr, error) {
	var args []Expr
	if p.check(RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.check(COMMA) {
			break
		}
		p.advance()
	}
	return args, nil
}

// lineAndSnippet renders the source line containing offset, for use in
// user-facing diagnostics that embed a CompileError's Offset.
func lineAndSnippet(src string, offset int) (line int, snippet string) {
	line = 1
	lineStart := 0
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := len(src)
	if idx := strings.IndexByte(src[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}
	if lineStart > len(src) {
		return line, ""
	}
	return line, strings.TrimSpace(src[lineStart:lineEnd])
}

// Describe renders a CompileError against src the way the teacher's parser
// renders errors: "line N: message\n  |> source snippet".
func Describe(err *CompileError, src string) string {
	line, snippet := lineAndSnippet(src, err.Offset)
	return fmt.Sprintf("line %d: %s\n  |> %s", line, err.Message, snippet)
}
