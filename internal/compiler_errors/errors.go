package compiler_errors

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	Internal ErrorKind = iota

	// lexical
	InvalidCharacter
	MalformedNumber
	UnterminatedText

	// structural
	MissingRParen
	UnexpectedEOF
	FnMissingName
	FnMissingParameters
	UnknownOperator
	UnexpectedToken
	NestingTooDeep

	// code generation
	Unsupported
	Undefined
)

func (k ErrorKind) String() string {
	switch k {
	case Internal:
		return "internal error"
	case InvalidCharacter:
		return "illegal character in input stream"
	case MalformedNumber:
		return "malformed number"
	case UnterminatedText:
		return "unterminated text literal"
	case MissingRParen:
		return "expected ')'"
	case UnexpectedEOF:
		return "unexpected end of input"
	case FnMissingName:
		return "function declaration is missing name"
	case FnMissingParameters:
		return "function declaration is missing parameters"
	case UnknownOperator:
		return "unknown operator"
	case UnexpectedToken:
		return "unexpected token"
	case NestingTooDeep:
		return "nesting too deep"
	case Unsupported:
		return "unsupported construct"
	case Undefined:
		return "undefined name"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the single error type produced by the lexer, the parser and
// the emitter. Line and Column are 1-based; zero means no position.
type Error struct {
	Kind    ErrorKind
	Message string

	FileName string
	Line     int
	Column   int
	Length   int
}

func New(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) At(line, column, length int) *Error {
	e.Line = line
	e.Column = column
	e.Length = length
	return e
}

func (e *Error) InFile(fileName string) *Error {
	e.FileName = fileName
	return e
}

func (e *Error) GetMessage() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) GetFileName() string {
	return e.FileName
}

func (e *Error) GetLine() int {
	return e.Line
}

func (e *Error) GetColumn() int {
	return e.Column
}


func (e *Error) Error() string {
	if e.Line == 0 {
		return e.GetMessage()
	}
	return fmt.Sprintf("%s: %s", formatLocation(e), e.GetMessage())
}

// IsKind reports whether err, or anything it wraps, is an *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Kind == kind
}
