package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nilq/icecream/internal/compiler_errors"
)

func newMalformedNumberError(number string, start TokenMetadata) *compiler_errors.Error {
	return compiler_errors.New(
		compiler_errors.MalformedNumber,
		"malformed number: '%s'", number,
	).At(start.Line, start.Column, len(number))
}

func newUnterminatedTextError(start TokenMetadata, length int) *compiler_errors.Error {
	return compiler_errors.New(
		compiler_errors.UnterminatedText,
		"expected '\"' to close text literal",
	).At(start.Line, start.Column, length)
}

// Lexer produces tokens on demand from an in-memory buffer. It keeps the
// scan position and looks at most one character ahead.
type Lexer struct {
	buf []byte
	pos int

	line, col int
}

func NewLexer(buf []byte) *Lexer {
	return &Lexer{
		buf: buf,
		pos: 0,

		line: 1,
		col:  1,
	}
}

// Reset rewinds the lexer to the start of its buffer.
func (l *Lexer) Reset() {
	l.pos = 0
	l.line = 1
	l.col = 1
}

// Tokenize drains the lexer. The returned slice always ends with an EOF
// token unless a lexical error stopped the scan.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0)

	for {
		token, err := l.Next()
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
		if token.Kind == EOF {
			return tokens, nil
		}
	}
}

// Next returns the next token. End of input is reported as an EOF token,
// never as an error; calling Next again after that keeps returning EOF.
// Characters that start no token come back as ILLEGAL tokens so that the
// scan can carry on past them.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.mark()
	if !l.hasChars() {
		return l.token(EOF, "", start), nil
	}

	switch c := l.read(); {
	case isDigit(c):
		return l.processNumber(start)
	case isIdentifierStart(c):
		return l.processIdentifier(start), nil
	case c == '"':
		return l.processTextLiteral(start)
	default:
		return l.processPunctuation(start), nil
	}
}

func (l *Lexer) skipWhitespace() {
	for l.hasChars() && unicode.IsSpace(l.read()) {
		l.advance()
	}
}

func (l *Lexer) processIdentifier(start TokenMetadata) Token {
	l.advance()
	for l.hasChars() && isIdentifierPart(l.read()) {
		l.advance()
	}

	identifier := string(l.buf[start.Offset:l.pos])
	if kind, ok := keywords[identifier]; ok {
		return l.token(kind, identifier, start)
	}

	return l.token(IDENT, identifier, start)
}

// processNumber scans a run of digits. A '.' joins the run only when a
// digit follows it, so "1." leaves the dot for the next token while
// "1.2.3" is one run that parses as neither an int nor a float.
func (l *Lexer) processNumber(start TokenMetadata) (Token, error) {
	l.advance()
	for l.hasChars() {
		c := l.read()
		if !isDigit(c) && !(c == '.' && isDigit(l.next())) {
			break
		}
		l.advance()
	}

	number := string(l.buf[start.Offset:l.pos])

	if value, err := strconv.ParseInt(number, 10, 64); err == nil {
		token := l.token(INT, number, start)
		token.Int = value
		return token, nil
	}

	if value, err := strconv.ParseFloat(number, 64); err == nil {
		token := l.token(FLOAT, number, start)
		token.Float = value
		return token, nil
	}

	return Token{}, newMalformedNumberError(number, start)
}

func (l *Lexer) processTextLiteral(start TokenMetadata) (Token, error) {
	l.advance()

	var text strings.Builder
	for {
		if !l.hasChars() || l.read() == '\n' {
			return Token{}, newUnterminatedTextError(start, l.pos-start.Offset)
		}

		c := l.read()
		l.advance()

		if c == '"' {
			break
		}

		if c != '\\' {
			text.WriteRune(c)
			continue
		}

		if !l.hasChars() {
			return Token{}, newUnterminatedTextError(start, l.pos-start.Offset)
		}

		escaped := l.read()
		l.advance()
		switch escaped {
		case 'n':
			text.WriteByte('\n')
		case 't':
			text.WriteByte('\t')
		case '"', '\\':
			text.WriteRune(escaped)
		default:
			text.WriteByte('\\')
			text.WriteRune(escaped)
		}
	}

	return l.token(TEXT, text.String(), start), nil
}

// processPair scans a one-character operator that becomes a two-character
// one when followed by second.
func (l *Lexer) processPair(start TokenMetadata, single TokenKind, second rune, pair TokenKind) Token {
	first := l.read()
	l.advance()

	if l.hasChars() && l.read() == second {
		l.advance()
		return l.token(pair, string([]rune{first, second}), start)
	}

	return l.token(single, string(first), start)
}

func (l *Lexer) processPunctuation(start TokenMetadata) Token {
	c := l.read()

	switch c {
	case '=':
		return l.processPair(start, ASSIGN, '=', EQ)
	case '-':
		return l.processPair(start, MINUS, '>', ARROW)
	case '~':
		return l.processPair(start, TILDE, '=', NEQ)
	case '&':
		return l.processPair(start, BAND, '&', LAND)
	}

	var kind TokenKind
	switch c {
	case '+':
		kind = PLUS
	case '*':
		kind = ASTERISK
	case '/':
		kind = SLASH
	case '<':
		kind = LT
	case '>':
		kind = GT
	case ',':
		kind = COMMA
	case '.':
		kind = DOT
	case ':':
		kind = COLON
	case '(':
		kind = LPAREN
	case ')':
		kind = RPAREN
	case '{':
		kind = LBRACE
	case '}':
		kind = RBRACE
	case '[':
		kind = LBRACKET
	case ']':
		kind = RBRACKET
	default:
		kind = ILLEGAL
	}

	l.advance()
	return l.token(kind, string(c), start)
}

func (l *Lexer) mark() TokenMetadata {
	return TokenMetadata{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) token(kind TokenKind, value string, start TokenMetadata) Token {
	start.Length = l.pos - start.Offset
	return Token{
		Kind:     kind,
		Value:    value,
		Metadata: start,
	}
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentifierStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentifierPart(c rune) bool {
	return isIdentifierStart(c) || unicode.IsDigit(c) || c == '?' || c == '!'
}

func (l *Lexer) hasChars() bool {
	return l.pos < len(l.buf)
}

func (l *Lexer) read() rune {
	c, _ := utf8.DecodeRune(l.buf[l.pos:])
	return c
}

// next returns the character after the current one, or 0 at the end.
func (l *Lexer) next() rune {
	_, width := utf8.DecodeRune(l.buf[l.pos:])
	if l.pos+width >= len(l.buf) {
		return 0
	}
	c, _ := utf8.DecodeRune(l.buf[l.pos+width:])
	return c
}

func (l *Lexer) advance() {
	c, width := utf8.DecodeRune(l.buf[l.pos:])
	l.pos += width

	if c == '\n' {
		l.line++
		l.col = 1
		return
	}
	l.col++
}
