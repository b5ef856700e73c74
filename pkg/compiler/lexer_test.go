package compiler

import "testing"

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
		wantErr  bool
	}{
		{
			name:     "empty",
			input:    "",
			expected: []TokenType{EOF},
		},
		{
			name:     "operators and delimiters",
			input:    "+ - * / % ^ << >> = == != < <= > >= && || ! & { } ( ) [ ] ; , : -> ?",
			expected: []TokenType{
				PLUS, MINUS, STAR, SLASH, PERCENT, CARET, SHL, SHR,
				ASSIGN, EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ,
				AND_AND, OR_OR, NOT, AMP,
				LBRACE, RBRACE, LPAREN, RPAREN, LBRACKET, RBRACKET,
				SEMICOLON, COMMA, COLON, ARROW, QUESTION, EOF,
			},
		},
		{
			name:     "keywords and type atoms",
			input:    "let mut const fn extern print return if else for while and or i32 f64 bool none",
			expected: []TokenType{
				LET, MUT, CONST, FN, EXTERN, PRINT, RETURN, IF, ELSE, FOR, WHILE,
				AND_KW, OR_KW, TY_I32, TY_F64, TY_BOOL, TY_NONE, EOF,
			},
		},
		{
			name:     "identifiers and literals",
			input:    `count _x2 42 3.14 1e3 true false "hi"`,
			expected: []TokenType{IDENTIFIER, IDENTIFIER, INTEGER, DECIMAL, DECIMAL, TRUE, FALSE, STRING, EOF},
		},
		{
			name:  "line comment skipped",
			input: "let x // trailing comment\n= 1;",
			expected: []TokenType{LET, IDENTIFIER, ASSIGN, INTEGER, SEMICOLON, EOF},
		},
		{
			name:  "block comment skipped",
			input: "let /* a block\ncomment */ x = 1;",
			expected: []TokenType{LET, IDENTIFIER, ASSIGN, INTEGER, SEMICOLON, EOF},
		},
		{
			name:    "unterminated string",
			input:   `"hi`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Lex(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Lex(%q): expected error, got none", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lex(%q): unexpected error: %v", tc.input, err)
			}
			if len(tokens) != len(tc.expected) {
				t.Fatalf("Lex(%q): got %d tokens, want %d (%v)", tc.input, len(tokens), len(tc.expected), tokens)
			}
			for i, want := range tc.expected {
				if tokens[i].Type != want {
					t.Errorf("token %d: got %s, want %s", i, tokens[i].Type, want)
				}
			}
		})
	}
}

func TestLexStringEscapes(t *testing.T) {
	tokens, err := Lex(`"hi\n\t\\\"\0"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Type != STRING {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
	want := "hi\n\t\\\"\x00"
	if tokens[0].Lexeme != want {
		t.Errorf("got lexeme %q, want %q", tokens[0].Lexeme, want)
	}
}

func TestLexIntegerVsDecimal(t *testing.T) {
	tokens, err := Lex("1 1.0 1e10 1.5e-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenType{INTEGER, DECIMAL, DECIMAL, DECIMAL, EOF}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, tokens[i].Type, w)
		}
	}
}
