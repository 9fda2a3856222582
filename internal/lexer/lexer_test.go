package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `module prelude
# the polymorphic identity
poly id : forall X. X -> X = /\X. \x:X. x
`
	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{MODULE, "module"},
		{IDENT, "prelude"},
		{POLY, "poly"},
		{IDENT, "id"},
		{COLON, ":"},
		{FORALL, "forall"},
		{IDENT, "X"},
		{DOT, "."},
		{IDENT, "X"},
		{ARROW, "->"},
		{IDENT, "X"},
		{ASSIGN, "="},
		{TLAMBDA, "/\\"},
		{IDENT, "X"},
		{DOT, "."},
		{LAMBDA, "\\"},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "X"},
		{DOT, "."},
		{IDENT, "x"},
		{EOF, ""},
	}

	l := New(input, "test.trip")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong type. expected=%s, got=%s (%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestUnicodeForms(t *testing.T) {
	input := `λx. Λ ∀A. A → A`
	expected := []TokenType{LAMBDA, IDENT, DOT, TLAMBDA, FORALL, IDENT, DOT, IDENT, ARROW, IDENT, EOF}

	l := New(input, "test.trip")
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tokens[%d] = %s (%q), want %s", i, tok.Type, tok.Literal, want)
		}
	}
}

func TestDataTokens(t *testing.T) {
	input := `data Maybe A = Nothing | Just A`
	expected := []TokenType{DATA, IDENT, IDENT, ASSIGN, IDENT, PIPE, IDENT, IDENT, EOF}

	l := New(input, "test.trip")
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tokens[%d] = %s (%q), want %s", i, tok.Type, tok.Literal, want)
		}
	}
}

func TestPositions(t *testing.T) {
	l := New("module M\nexport x", "pos.trip")
	tok := l.NextToken() // module
	if tok.Line != 1 {
		t.Errorf("module line = %d, want 1", tok.Line)
	}
	l.NextToken()       // M
	tok = l.NextToken() // export
	if tok.Line != 2 {
		t.Errorf("export line = %d, want 2", tok.Line)
	}
}

func TestIllegalRune(t *testing.T) {
	l := New("poly x = $", "bad.trip")
	var tok Token
	for tok = l.NextToken(); tok.Type != EOF && tok.Type != ILLEGAL; tok = l.NextToken() {
	}
	if tok.Type != ILLEGAL || tok.Literal != "$" {
		t.Errorf("got %s (%q), want ILLEGAL $", tok.Type, tok.Literal)
	}
}

func TestByteOrderMarkIsIgnored(t *testing.T) {
	src := string([]byte{0xEF, 0xBB, 0xBF}) + "module m"
	l := New(src, "bom.trip")
	tok := l.NextToken()
	if tok.Type != MODULE {
		t.Errorf("first token = %s (%q), want module", tok.Type, tok.Literal)
	}
}

func TestInputIsNFCNormalized(t *testing.T) {
	// The same identifier in composed and decomposed form must yield the
	// same literal.
	composed := "café"          // café, NFC
	decomposed := "café"       // café, NFD
	a := New(composed, "a.trip").NextToken()
	b := New(decomposed, "b.trip").NextToken()
	if a.Type != IDENT || b.Type != IDENT {
		t.Fatalf("token types = %s, %s, want IDENT", a.Type, b.Type)
	}
	if a.Literal != b.Literal {
		t.Errorf("literals differ: %q vs %q", a.Literal, b.Literal)
	}
}
