// Package parser implements a recursive-descent parser for TripLang surface
// syntax, producing module definitions ready for object assembly.
package parser

import (
	"fmt"

	"github.com/triplang/tripc/internal/ast"
	"github.com/triplang/tripc/internal/lexer"
)

// Parser consumes a token stream and builds definitions. Parsing stops at
// the first error.
type Parser struct {
	l    *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over a lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// ParseSource parses a whole source file.
func ParseSource(src, filename string) ([]ast.Definition, error) {
	return New(lexer.New(src, filename)).Parse()
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d:%d: %s", p.cur.File, p.cur.Line, p.cur.Column,
		fmt.Sprintf(format, args...))
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != t {
		return lexer.Token{}, p.errorf("expected %s, found %q", t, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

// Parse reads declarations until EOF.
func (p *Parser) Parse() ([]ast.Definition, error) {
	var defs []ast.Definition
	for p.cur.Type != lexer.EOF {
		def, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (p *Parser) parseDecl() (ast.Definition, error) {
	switch p.cur.Type {
	case lexer.MODULE:
		p.next()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.ModuleDecl{Name: name.Literal}, nil

	case lexer.IMPORT:
		p.next()
		from, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		imp := &ast.ImportDecl{From: from.Literal, Name: name.Literal}
		if p.cur.Type == lexer.AS {
			p.next()
			alias, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			imp.As = alias.Literal
		}
		return imp, nil

	case lexer.EXPORT:
		p.next()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.ExportDecl{Name: name.Literal}, nil

	case lexer.POLY:
		p.next()
		rec := false
		if p.cur.Type == lexer.REC {
			rec = true
			p.next()
		}
		name, declared, err := p.parseHeader()
		if err != nil {
			return nil, err
		}
		term, err := p.parsePolyTerm()
		if err != nil {
			return nil, err
		}
		return &ast.PolyDef{Name: name, Type: declared, Term: term, Rec: rec}, nil

	case lexer.TYPED:
		p.next()
		name, declared, err := p.parseHeader()
		if err != nil {
			return nil, err
		}
		term, err := p.parseTypedTerm()
		if err != nil {
			return nil, err
		}
		return &ast.TypedDef{Name: name, Type: declared, Term: term}, nil

	case lexer.UNTYPED:
		p.next()
		name, _, err := p.parseHeader()
		if err != nil {
			return nil, err
		}
		term, err := p.parseUntypedTerm()
		if err != nil {
			return nil, err
		}
		return &ast.UntypedDef{Name: name, Term: term}, nil

	case lexer.COMBINATOR:
		p.next()
		name, _, err := p.parseHeader()
		if err != nil {
			return nil, err
		}
		term, err := p.parseSKITerm()
		if err != nil {
			return nil, err
		}
		return &ast.CombinatorDef{Name: name, Term: term}, nil

	case lexer.TYPE:
		p.next()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.TypeDef{Name: name.Literal, Type: ty}, nil

	case lexer.DATA:
		return p.parseData()

	default:
		return nil, p.errorf("expected a declaration, found %q", p.cur.Literal)
	}
}

// parseHeader reads `name [: type] =` and returns the name and optional
// declared type.
func (p *Parser) parseHeader() (string, ast.BaseType, error) {
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", nil, err
	}
	var declared ast.BaseType
	if p.cur.Type == lexer.COLON {
		p.next()
		declared, err = p.parseType()
		if err != nil {
			return "", nil, err
		}
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return "", nil, err
	}
	return name.Literal, declared, nil
}

func (p *Parser) parseData() (ast.Definition, error) {
	p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	data := &ast.DataDef{Name: name.Literal}
	for p.cur.Type == lexer.IDENT {
		data.TypeParams = append(data.TypeParams, p.cur.Literal)
		p.next()
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	for {
		ctorName, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		ctor := ast.Constructor{Name: ctorName.Literal}
		for p.isTypeAtomStart() {
			field, err := p.parseTypeAtom()
			if err != nil {
				return nil, err
			}
			ctor.Fields = append(ctor.Fields, field)
		}
		data.Constructors = append(data.Constructors, ctor)
		if p.cur.Type != lexer.PIPE {
			break
		}
		p.next()
	}
	return data, nil
}
