// Package lexer tokenizes TripLang source code.
package lexer

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 byte order mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Lexer is a cursor over normalized TripLang source. The cursor always sits
// on one decoded rune; r is 0 once the input is exhausted.
type Lexer struct {
	src  string
	r    rune // rune under the cursor
	off  int  // byte offset of r within src
	next int  // byte offset of the rune after r
	line int  // 1-based line of r
	col  int  // 1-based column of r
	file string
}

// New creates a Lexer. Input is normalized up front: a leading byte order
// mark is dropped and the text is brought to NFC, so that λ/Λ/∀/→ sources
// tokenize identically however an editor encoded them.
func New(input string, filename string) *Lexer {
	src := bytes.TrimPrefix([]byte(input), bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	l := &Lexer{src: string(src), file: filename, line: 1}
	l.advance()
	return l
}

// advance moves the cursor to the next rune.
func (l *Lexer) advance() {
	if l.next >= len(l.src) {
		l.r = 0
		l.off = len(l.src)
		return
	}
	if l.r == '\n' {
		l.line++
		l.col = 0
	}
	r, width := utf8.DecodeRuneInString(l.src[l.next:])
	l.r = r
	l.off = l.next
	l.next += width
	l.col++
}

// lookahead returns the rune after the cursor without moving it.
func (l *Lexer) lookahead() rune {
	if l.next >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.next:])
	return r
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	line := l.line
	column := l.col

	var tok Token
	switch l.r {
	case 0:
		tok = NewToken(EOF, "", line, column, l.file)
	case 'λ', '\\':
		tok = NewToken(LAMBDA, string(l.r), line, column, l.file)
	case 'Λ':
		tok = NewToken(TLAMBDA, string(l.r), line, column, l.file)
	case '∀':
		tok = NewToken(FORALL, string(l.r), line, column, l.file)
	case '→':
		tok = NewToken(ARROW, string(l.r), line, column, l.file)
	case '-':
		if l.lookahead() == '>' {
			l.advance()
			tok = NewToken(ARROW, "->", line, column, l.file)
		} else {
			tok = NewToken(ILLEGAL, string(l.r), line, column, l.file)
		}
	case '/':
		if l.lookahead() == '\\' {
			l.advance()
			tok = NewToken(TLAMBDA, "/\\", line, column, l.file)
		} else {
			tok = NewToken(ILLEGAL, string(l.r), line, column, l.file)
		}
	case '.':
		tok = NewToken(DOT, ".", line, column, l.file)
	case ':':
		tok = NewToken(COLON, ":", line, column, l.file)
	case '=':
		tok = NewToken(ASSIGN, "=", line, column, l.file)
	case '|':
		tok = NewToken(PIPE, "|", line, column, l.file)
	case '(':
		tok = NewToken(LPAREN, "(", line, column, l.file)
	case ')':
		tok = NewToken(RPAREN, ")", line, column, l.file)
	case '[':
		tok = NewToken(LBRACKET, "[", line, column, l.file)
	case ']':
		tok = NewToken(RBRACKET, "]", line, column, l.file)
	default:
		if isIdentStart(l.r) {
			literal := l.readIdentifier()
			return NewToken(LookupIdent(literal), literal, line, column, l.file)
		}
		tok = NewToken(ILLEGAL, string(l.r), line, column, l.file)
	}

	l.advance()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.r == ' ' || l.r == '\t' || l.r == '\n' || l.r == '\r' {
			l.advance()
		}
		// # starts a comment running to end of line.
		if l.r == '#' {
			for l.r != '\n' && l.r != 0 {
				l.advance()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.off
	for isIdentPart(l.r) {
		l.advance()
	}
	return l.src[start:l.off]
}

func isIdentStart(ch rune) bool {
	if ch == 'λ' || ch == 'Λ' || ch == '∀' {
		return false
	}
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentPart(ch rune) bool {
	if ch == 'λ' || ch == 'Λ' || ch == '∀' {
		return false
	}
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '\''
}
