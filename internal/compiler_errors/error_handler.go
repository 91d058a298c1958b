package compiler_errors

import (
	"fmt"
	"io"
	"os"
)

type CompilerError interface {
	GetMessage() string
}

// LocatedError is a CompilerError that knows where in the source it
// happened. A zero line means the position is unknown.
type LocatedError interface {
	CompilerError
	GetFileName() string
	GetLine() int
	GetColumn() int
}

type ErrorHandler interface {
	AddError(err CompilerError)
	HasErrors() bool
	Report(w io.Writer)
	FailNow()
}

type CompilerErrorHandler struct {
	errors []CompilerError
	writer io.Writer
}

func NewErrorHandler(outputWriter io.Writer) ErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]CompilerError, 0),
		writer: outputWriter,
	}
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) Report(w io.Writer) {
	fmt.Fprintln(w, "Build failed with errors:")

	for _, err := range eh.errors {
		if located, ok := err.(LocatedError); ok && located.GetLine() > 0 {
			fmt.Fprintf(w, "ERROR: %s: %s\n", formatLocation(located), err.GetMessage())
			continue
		}

		fmt.Fprintf(w, "ERROR: %s\n", err.GetMessage())
	}
}

// FailNow reports every collected error and terminates the process.
func (eh *CompilerErrorHandler) FailNow() {
	eh.Report(eh.writer)
	os.Exit(1)
}

func formatLocation(err LocatedError) string {
	if err.GetFileName() == "" {
		return fmt.Sprintf("%d:%d", err.GetLine(), err.GetColumn())
	}
	return fmt.Sprintf("%s:%d:%d", err.GetFileName(), err.GetLine(), err.GetColumn())
}
