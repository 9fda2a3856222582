package parser

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/lexer"
)

// Standalone-expression entry points, used by the REPL.

// ParseUntypedExpr parses a single untyped term spanning the whole input.
func (p *Parser) ParseUntypedExpr() (ast.UntypedTerm, error) {
	term, err := p.parseUntypedTerm()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.EOF {
		return nil, p.errorf("unexpected %q after term", p.cur.Literal)
	}
	return term, nil
}

// ParseSKIExpr parses a single combinator expression spanning the whole
// input.
func (p *Parser) ParseSKIExpr() (ast.SKITerm, error) {
	term, err := p.parseSKITerm()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != lexer.EOF {
		return nil, p.errorf("unexpected %q after expression", p.cur.Literal)
	}
	return term, nil
}
