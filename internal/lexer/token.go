package lexer

import (
	"fmt"
	"strconv"
)

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	INT
	FLOAT
	TEXT

	IDENT

	ASSIGN   // =
	EQ       // ==
	TILDE    // ~
	NEQ      // ~=
	BAND     // &
	LAND     // &&
	PLUS     // +
	MINUS    // -
	ARROW    // ->
	ASTERISK // *
	SLASH    // /
	LT       // <
	GT       // >

	COMMA    // ,
	DOT      // .
	COLON    // :
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]

	FUNC
	LAMBDA
	IF
	UNLESS
	ELSE
	RETURN
	END
	TRUE
	FALSE
	VAR
)

var keywords = map[string]TokenKind{
	"func":   FUNC,
	"lambda": LAMBDA,
	"if":     IF,
	"unless": UNLESS,
	"else":   ELSE,
	"return": RETURN,
	"end":    END,
	"true":   TRUE,
	"false":  FALSE,
	"var":    VAR,
}

func (tk TokenKind) String() string {
	switch tk {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case TEXT:
		return "TEXT"
	case IDENT:
		return "IDENT"
	case ASSIGN:
		return "ASSIGN"
	case EQ:
		return "EQ"
	case TILDE:
		return "TILDE"
	case NEQ:
		return "NEQ"
	case BAND:
		return "BAND"
	case LAND:
		return "LAND"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case ARROW:
		return "ARROW"
	case ASTERISK:
		return "ASTERISK"
	case SLASH:
		return "SLASH"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case COMMA:
		return "COMMA"
	case DOT:
		return "DOT"
	case COLON:
		return "COLON"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case FUNC:
		return "FUNC"
	case LAMBDA:
		return "LAMBDA"
	case IF:
		return "IF"
	case UNLESS:
		return "UNLESS"
	case ELSE:
		return "ELSE"
	case RETURN:
		return "RETURN"
	case END:
		return "END"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case VAR:
		return "VAR"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(tk))
	}
}

// Precedence is the binding strength of tk in infix position. Higher
// binds tighter; -1 means tk is not an infix operator.
func (tk TokenKind) Precedence() int {
	switch tk {
	case ASSIGN:
		return 10
	case LAND:
		return 12
	case LT, GT, EQ, NEQ:
		return 15
	case PLUS, MINUS:
		return 20
	case ASTERISK, SLASH:
		return 40
	case DOT:
		return 100
	default:
		return -1
	}
}

type TokenMetadata struct {
	Line   int
	Column int
	Offset int
	Length int
}

type Token struct {
	Kind  TokenKind
	Value string

	Int   int64
	Float float64

	Metadata TokenMetadata
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case INT, FLOAT, TEXT, IDENT, ILLEGAL:
		return true
	}

	return false
}

func (t *Token) String() string {
	if !t.hasActualValue() {
		return fmt.Sprintf("%s()", t.Kind)
	}

	if t.Kind == TEXT {
		return fmt.Sprintf("%s(%s)", t.Kind, strconv.Quote(t.Value))
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}
