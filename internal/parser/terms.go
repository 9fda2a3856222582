package parser

import (
	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/lexer"
)

// Types.
//
//	type     := forall | arrow
//	forall   := ('∀' | 'forall') IDENT '.' type
//	arrow    := appty ('→' type)?
//	appty    := atom atom*
//	atom     := IDENT | '(' type ')'

func (p *Parser) parseType() (ast.BaseType, error) {
	if p.cur.Type == lexer.FORALL {
		p.next()
		v, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.DOT); err != nil {
			return nil, err
		}
		body, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.Forall{Var: v.Literal, Body: body}, nil
	}

	lft, err := p.parseTypeApp()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.ARROW {
		p.next()
		rgt, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.Arrow{Lft: lft, Rgt: rgt}, nil
	}
	return lft, nil
}

func (p *Parser) parseTypeApp() (ast.BaseType, error) {
	ty, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	for p.isTypeAtomStart() {
		arg, err := p.parseTypeAtom()
		if err != nil {
			return nil, err
		}
		ty = &ast.TypeApp{Fn: ty, Arg: arg}
	}
	return ty, nil
}

func (p *Parser) isTypeAtomStart() bool {
	return p.cur.Type == lexer.IDENT || p.cur.Type == lexer.LPAREN
}

func (p *Parser) parseTypeAtom() (ast.BaseType, error) {
	switch p.cur.Type {
	case lexer.IDENT:
		ty := &ast.TypeVar{Name: p.cur.Literal}
		p.next()
		return ty, nil
	case lexer.LPAREN:
		p.next()
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return ty, nil
	default:
		return nil, p.errorf("expected a type, found %q", p.cur.Literal)
	}
}

// Polymorphic terms.
//
//	term := 'λ' IDENT ':' type '.' term
//	      | 'Λ' IDENT '.' term
//	      | app
//	app  := atom (atom | '[' type ']')*
//	atom := IDENT | '(' term ')'

func (p *Parser) parsePolyTerm() (ast.PolyTerm, error) {
	switch p.cur.Type {
	case lexer.LAMBDA:
		p.next()
		param, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ann, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.DOT); err != nil {
			return nil, err
		}
		body, err := p.parsePolyTerm()
		if err != nil {
			return nil, err
		}
		return &ast.PolyAbs{Param: param.Literal, Ann: ann, Body: body}, nil

	case lexer.TLAMBDA:
		p.next()
		v, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.DOT); err != nil {
			return nil, err
		}
		body, err := p.parsePolyTerm()
		if err != nil {
			return nil, err
		}
		return &ast.TyAbs{Var: v.Literal, Body: body}, nil
	}

	term, err := p.parsePolyAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur.Type == lexer.LBRACKET:
			p.next()
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
			term = &ast.TyApp{Term: term, Arg: arg}
		case p.isTermAtomStart():
			arg, err := p.parsePolyAtom()
			if err != nil {
				return nil, err
			}
			term = &ast.PolyApp{Fn: term, Arg: arg}
		default:
			return term, nil
		}
	}
}

func (p *Parser) isTermAtomStart() bool {
	switch p.cur.Type {
	case lexer.IDENT, lexer.LPAREN, lexer.LAMBDA, lexer.TLAMBDA:
		return true
	}
	return false
}

func (p *Parser) parsePolyAtom() (ast.PolyTerm, error) {
	switch p.cur.Type {
	case lexer.IDENT:
		v := &ast.PolyVar{Name: p.cur.Literal}
		p.next()
		return v, nil
	case lexer.LPAREN:
		p.next()
		term, err := p.parsePolyTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return term, nil
	case lexer.LAMBDA, lexer.TLAMBDA:
		return p.parsePolyTerm()
	default:
		return nil, p.errorf("expected a term, found %q", p.cur.Literal)
	}
}

// Simply typed terms: the polymorphic grammar minus Λ and [T].

func (p *Parser) parseTypedTerm() (ast.TypedTerm, error) {
	if p.cur.Type == lexer.LAMBDA {
		p.next()
		param, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ann, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.DOT); err != nil {
			return nil, err
		}
		body, err := p.parseTypedTerm()
		if err != nil {
			return nil, err
		}
		return &ast.TypedAbs{Param: param.Literal, Ann: ann, Body: body}, nil
	}

	term, err := p.parseTypedAtom()
	if err != nil {
		return nil, err
	}
	for p.isTermAtomStart() {
		arg, err := p.parseTypedAtom()
		if err != nil {
			return nil, err
		}
		term = &ast.TypedApp{Fn: term, Arg: arg}
	}
	return term, nil
}

func (p *Parser) parseTypedAtom() (ast.TypedTerm, error) {
	switch p.cur.Type {
	case lexer.IDENT:
		v := &ast.TypedVar{Name: p.cur.Literal}
		p.next()
		return v, nil
	case lexer.LPAREN:
		p.next()
		term, err := p.parseTypedTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return term, nil
	case lexer.LAMBDA:
		return p.parseTypedTerm()
	default:
		return nil, p.errorf("expected a term, found %q", p.cur.Literal)
	}
}

// Untyped terms.

func (p *Parser) parseUntypedTerm() (ast.UntypedTerm, error) {
	if p.cur.Type == lexer.LAMBDA {
		p.next()
		param, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.DOT); err != nil {
			return nil, err
		}
		body, err := p.parseUntypedTerm()
		if err != nil {
			return nil, err
		}
		return &ast.Lam{Param: param.Literal, Body: body}, nil
	}

	term, err := p.parseUntypedAtom()
	if err != nil {
		return nil, err
	}
	for p.isTermAtomStart() {
		arg, err := p.parseUntypedAtom()
		if err != nil {
			return nil, err
		}
		term = &ast.App{Fn: term, Arg: arg}
	}
	return term, nil
}

func (p *Parser) parseUntypedAtom() (ast.UntypedTerm, error) {
	switch p.cur.Type {
	case lexer.IDENT:
		v := &ast.Var{Name: p.cur.Literal}
		p.next()
		return v, nil
	case lexer.LPAREN:
		p.next()
		term, err := p.parseUntypedTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return term, nil
	case lexer.LAMBDA:
		return p.parseUntypedTerm()
	default:
		return nil, p.errorf("expected a term, found %q", p.cur.Literal)
	}
}

// Combinator terms. Application is juxtaposition, left-associative; only the
// S, K and I terminals are accepted.

func (p *Parser) parseSKITerm() (ast.SKITerm, error) {
	term, err := p.parseSKIAtom()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.IDENT || p.cur.Type == lexer.LPAREN {
		arg, err := p.parseSKIAtom()
		if err != nil {
			return nil, err
		}
		term = &ast.SKIApp{Fn: term, Arg: arg}
	}
	return term, nil
}

func (p *Parser) parseSKIAtom() (ast.SKITerm, error) {
	switch p.cur.Type {
	case lexer.IDENT:
		var term ast.SKITerm
		switch p.cur.Literal {
		case "S":
			term = ast.S
		case "K":
			term = ast.K
		case "I":
			term = ast.I
		default:
			return nil, p.errorf("combinator terms allow only S, K and I, found %q", p.cur.Literal)
		}
		p.next()
		return term, nil
	case lexer.LPAREN:
		p.next()
		term, err := p.parseSKITerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return term, nil
	default:
		return nil, p.errorf("expected a combinator, found %q", p.cur.Literal)
	}
}
